package review

// Review is a user-submitted review of a single episode. Review titles are
// unique per episode rather than globally, and are compared exactly; unlike
// episode titles, no normalization is applied.
type Review struct {
	ReviewID  int     `db:"review_id" json:"reviewID"`
	EpisodeID int     `db:"episode_id" json:"episodeID"`
	Text      *string `db:"text" json:"text"`
	Title     string  `db:"title" json:"title"`
}
