package episode

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/tvcat/tvcat/internal/database"
)

// Store performs the episode table queries. Every method accepts the
// Queryable to run against, so callers may batch methods inside a
// transaction if they wish.
type Store struct{}

func NewStore() *Store { return &Store{} }

func (store *Store) GetAll(db database.Queryable) ([]*Episode, error) {
	var results []*Episode
	if err := db.Select(&results, `SELECT * FROM episodes`); err != nil {
		return nil, err
	}

	return results, nil
}

func (store *Store) Count(db database.Queryable) (int, error) {
	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM episodes`); err != nil {
		return 0, err
	}

	return count, nil
}

func (store *Store) GetByID(db database.Queryable, id int) (*Episode, error) {
	var result Episode
	if err := db.Get(&result, `SELECT * FROM episodes WHERE id=$1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return &result, nil
}

// GetByTitle finds an episode whose title matches the input under
// case-insensitive comparison. Returns nil (and no error) when no
// episode matches.
func (store *Store) GetByTitle(db database.Queryable, title string) (*Episode, error) {
	var result Episode
	if err := db.Get(&result, `SELECT * FROM episodes WHERE LOWER(title)=LOWER($1)`, title); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	return &result, nil
}

func (store *Store) GetPage(db database.Queryable, limit int, offset int) ([]*Episode, error) {
	query, args, err := selectEpisodeBuilder().
		OrderBy("id ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to construct episode page query: %w", err)
	}

	var results []*Episode
	if err := db.Select(&results, db.Rebind(query), args...); err != nil {
		return nil, err
	}

	return results, nil
}

func (store *Store) GetSortedByTitle(db database.Queryable) ([]*Episode, error) {
	var results []*Episode
	if err := db.Select(&results, `SELECT * FROM episodes ORDER BY title ASC`); err != nil {
		return nil, err
	}

	return results, nil
}

func (store *Store) GetBySeason(db database.Queryable, season int) ([]*Episode, error) {
	return store.getFiltered(db, squirrel.Eq{"season": season})
}

func (store *Store) GetByRating(db database.Queryable, rating float64) ([]*Episode, error) {
	return store.getFiltered(db, squirrel.Eq{"rating": rating})
}

// SearchByTitle returns the episodes whose title contains the given
// substring, compared case-insensitively. Match order is unspecified.
func (store *Store) SearchByTitle(db database.Queryable, title string) ([]*Episode, error) {
	var results []*Episode
	if err := db.Select(&results, `SELECT * FROM episodes WHERE title ILIKE '%' || $1 || '%'`, title); err != nil {
		return nil, err
	}

	return results, nil
}

// GetSeasonCounts returns a mapping from season number to the count of
// episodes in that season. Seasons with no episodes have no entry.
func (store *Store) GetSeasonCounts(db database.Queryable) (map[int]int, error) {
	rows, err := db.Queryx(`SELECT season, COUNT(*) AS count FROM episodes GROUP BY season`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var season, count int
		if err := rows.Scan(&season, &count); err != nil {
			return nil, err
		}

		counts[season] = count
	}

	return counts, rows.Err()
}

func (store *Store) Insert(db database.Queryable, episode *Episode) (*Episode, error) {
	var created Episode
	err := db.QueryRowx(`
		INSERT INTO episodes(title, season, episode_number, rating, image)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING *
	`, episode.Title, episode.Season, episode.EpisodeNumber, episode.Rating, episode.Image).StructScan(&created)
	if err != nil {
		return nil, fmt.Errorf("failed to insert new episode: %w", err)
	}

	return &created, nil
}

func (store *Store) Update(db database.Queryable, episode *Episode) (*Episode, error) {
	var updated Episode
	err := db.QueryRowx(`
		UPDATE episodes
		SET title=$2, season=$3, episode_number=$4, rating=$5, image=$6
		WHERE id=$1
		RETURNING *
	`, episode.ID, episode.Title, episode.Season, episode.EpisodeNumber, episode.Rating, episode.Image).StructScan(&updated)
	if err != nil {
		return nil, fmt.Errorf("failed to update episode %d: %w", episode.ID, err)
	}

	return &updated, nil
}

// DeleteByID removes the episode with the given ID, reporting whether a
// row was actually deleted.
func (store *Store) DeleteByID(db database.Queryable, id int) (bool, error) {
	result, err := db.Exec(`DELETE FROM episodes WHERE id=$1`, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// DeleteByTitle removes episodes whose stored title exactly equals the
// given string. Note this comparison is literal, unlike the
// case-insensitive match of GetByTitle.
func (store *Store) DeleteByTitle(db database.Queryable, title string) error {
	_, err := db.Exec(`DELETE FROM episodes WHERE title=$1`, title)
	return err
}

func (store *Store) getFiltered(db database.Queryable, filter squirrel.Eq) ([]*Episode, error) {
	query, args, err := selectEpisodeBuilder().Where(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to construct filtered episode query: %w", err)
	}

	var results []*Episode
	if err := db.Select(&results, db.Rebind(query), args...); err != nil {
		return nil, err
	}

	return results, nil
}

func selectEpisodeBuilder() squirrel.SelectBuilder {
	return squirrel.Select("*").From("episodes")
}
