package reviews

import "github.com/tvcat/tvcat/internal/review"

type reviewDto struct {
	ReviewID  int     `json:"reviewID"`
	EpisodeID int     `json:"episodeID"`
	Text      *string `json:"text"`
	Title     string  `json:"title"`
}

func reviewToDto(model *review.Review) reviewDto {
	return reviewDto{
		ReviewID:  model.ReviewID,
		EpisodeID: model.EpisodeID,
		Text:      model.Text,
		Title:     model.Title,
	}
}
