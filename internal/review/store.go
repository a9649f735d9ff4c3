package review

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/tvcat/tvcat/internal/database"
)

type Store struct{}

func NewStore() *Store { return &Store{} }

func (store *Store) GetAll(db database.Queryable) ([]*Review, error) {
	var results []*Review
	if err := db.Select(&results, `SELECT * FROM reviews`); err != nil {
		return nil, err
	}

	return results, nil
}

func (store *Store) Count(db database.Queryable) (int, error) {
	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM reviews`); err != nil {
		return 0, err
	}

	return count, nil
}

func (store *Store) GetByID(db database.Queryable, reviewID int) (*Review, error) {
	var result Review
	if err := db.Get(&result, `SELECT * FROM reviews WHERE review_id=$1`, reviewID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return &result, nil
}

func (store *Store) GetByEpisode(db database.Queryable, episodeID int) ([]*Review, error) {
	var results []*Review
	if err := db.Select(&results, `SELECT * FROM reviews WHERE episode_id=$1`, episodeID); err != nil {
		return nil, err
	}

	return results, nil
}

// GetByEpisodeAndTitle finds the review carrying the exact title within
// the scope of one episode. Returns nil (and no error) when no review
// matches.
func (store *Store) GetByEpisodeAndTitle(db database.Queryable, episodeID int, title string) (*Review, error) {
	var result Review
	err := db.Get(&result, `SELECT * FROM reviews WHERE episode_id=$1 AND title=$2`, episodeID, title)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return &result, nil
}

func (store *Store) Insert(db database.Queryable, review *Review) (*Review, error) {
	var created Review
	err := db.QueryRowx(`
		INSERT INTO reviews(episode_id, text, title)
		VALUES ($1, $2, $3)
		RETURNING *
	`, review.EpisodeID, review.Text, review.Title).StructScan(&created)
	if err != nil {
		return nil, fmt.Errorf("failed to insert new review: %w", err)
	}

	return &created, nil
}

// Update replaces the text and title of an existing review. The review's
// ID and episode linkage are immutable once created.
func (store *Store) Update(db database.Queryable, reviewID int, text *string, title string) (*Review, error) {
	var updated Review
	err := db.QueryRowx(`
		UPDATE reviews SET text=$2, title=$3 WHERE review_id=$1
		RETURNING *
	`, reviewID, text, title).StructScan(&updated)
	if err != nil {
		return nil, fmt.Errorf("failed to update review %d: %w", reviewID, err)
	}

	return &updated, nil
}

func (store *Store) DeleteByID(db database.Queryable, reviewID int) (bool, error) {
	result, err := db.Exec(`DELETE FROM reviews WHERE review_id=$1`, reviewID)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}
