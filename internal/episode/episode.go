package episode

import (
	"regexp"
	"strings"
)

// DefaultImage is assigned to every episode on creation; the update path
// never touches the image column.
const DefaultImage = "../assets/default.jpg"

type Episode struct {
	ID            int     `db:"id" json:"id"`
	Title         string  `db:"title" json:"title"`
	Season        int     `db:"season" json:"season"`
	EpisodeNumber int     `db:"episode_number" json:"episode_number"`
	Rating        float64 `db:"rating" json:"rating"`
	Image         string  `db:"image" json:"image"`
}

var hyphenRuns = regexp.MustCompile(`-+`)

// NormalizeTitle trims surrounding whitespace, collapses runs of hyphens in
// to a single space, and lowercases the result. Normalized titles are used
// for lookups and uniqueness comparisons only; the stored title keeps the
// casing the caller supplied.
func NormalizeTitle(title string) string {
	return strings.ToLower(hyphenRuns.ReplaceAllString(strings.TrimSpace(title), " "))
}
