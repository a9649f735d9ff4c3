package episodes

import "github.com/tvcat/tvcat/internal/episode"

type episodeDto struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	Season        int     `json:"season"`
	EpisodeNumber int     `json:"episode_number"`
	Rating        float64 `json:"rating"`
	Image         string  `json:"image"`
}

func episodeToDto(model *episode.Episode) episodeDto {
	return episodeDto{
		ID:            model.ID,
		Title:         model.Title,
		Season:        model.Season,
		EpisodeNumber: model.EpisodeNumber,
		Rating:        model.Rating,
		Image:         model.Image,
	}
}
