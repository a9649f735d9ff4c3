package review_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tvcat/tvcat/internal/database"
	"github.com/tvcat/tvcat/internal/fault"
	"github.com/tvcat/tvcat/internal/review"
)

// memoryStore is an in-memory ReviewStore. Title comparisons are exact,
// matching the SQL store.
type memoryStore struct {
	reviews map[int]*review.Review
	nextID  int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{reviews: make(map[int]*review.Review), nextID: 1}
}

func (s *memoryStore) all() []*review.Review {
	out := make([]*review.Review, 0, len(s.reviews))
	for _, r := range s.reviews {
		copied := *r
		out = append(out, &copied)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ReviewID < out[j].ReviewID })
	return out
}

func (s *memoryStore) GetAll(_ database.Queryable) ([]*review.Review, error) {
	return s.all(), nil
}

func (s *memoryStore) Count(_ database.Queryable) (int, error) {
	return len(s.reviews), nil
}

func (s *memoryStore) GetByID(_ database.Queryable, reviewID int) (*review.Review, error) {
	if r, ok := s.reviews[reviewID]; ok {
		copied := *r
		return &copied, nil
	}

	return nil, nil
}

func (s *memoryStore) GetByEpisode(_ database.Queryable, episodeID int) ([]*review.Review, error) {
	var out []*review.Review
	for _, r := range s.all() {
		if r.EpisodeID == episodeID {
			out = append(out, r)
		}
	}

	return out, nil
}

func (s *memoryStore) GetByEpisodeAndTitle(_ database.Queryable, episodeID int, title string) (*review.Review, error) {
	for _, r := range s.all() {
		if r.EpisodeID == episodeID && r.Title == title {
			return r, nil
		}
	}

	return nil, nil
}

func (s *memoryStore) Insert(_ database.Queryable, r *review.Review) (*review.Review, error) {
	created := *r
	created.ReviewID = s.nextID
	s.nextID++
	s.reviews[created.ReviewID] = &created

	copied := created
	return &copied, nil
}

func (s *memoryStore) Update(_ database.Queryable, reviewID int, text *string, title string) (*review.Review, error) {
	existing := s.reviews[reviewID]
	existing.Text = text
	existing.Title = title

	copied := *existing
	return &copied, nil
}

func (s *memoryStore) DeleteByID(_ database.Queryable, reviewID int) (bool, error) {
	if _, ok := s.reviews[reviewID]; !ok {
		return false, nil
	}

	delete(s.reviews, reviewID)
	return true, nil
}

func newTestService() *review.Service {
	return review.NewService(nil, newMemoryStore())
}

func strPtr(s string) *string { return &s }

func Test_Add_ScopedTitleUniqueness(t *testing.T) {
	service := newTestService()

	_, err := service.Add(1, strPtr("great watch"), "Loved it")
	require.NoError(t, err)

	// Same title, same episode: rejected.
	_, err = service.Add(1, strPtr("another take"), "Loved it")
	require.Error(t, err)
	assert.True(t, fault.IsConflict(err))
	assert.EqualError(t, err, "A review with the title 'Loved it' already exists for this episode")

	// Same title, different episode: allowed.
	created, err := service.Add(2, strPtr("another take"), "Loved it")
	require.NoError(t, err)
	assert.Equal(t, 2, created.EpisodeID)

	count, err := service.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func Test_Add_TitleComparedExactly(t *testing.T) {
	service := newTestService()

	_, err := service.Add(1, nil, "Loved it")
	require.NoError(t, err)

	// Unlike episode titles, review titles get no normalization: a
	// different casing is a different title.
	_, err = service.Add(1, nil, "loved-it")
	require.NoError(t, err)

	count, err := service.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func Test_Add_NoEpisodeExistenceCheck(t *testing.T) {
	service := newTestService()

	created, err := service.Add(12345, nil, "Orphan review")
	require.NoError(t, err)
	assert.Equal(t, 12345, created.EpisodeID)
}

func Test_GetByID(t *testing.T) {
	service := newTestService()

	created, err := service.Add(1, strPtr("text"), "Title")
	require.NoError(t, err)

	found, err := service.GetByID(created.ReviewID)
	require.NoError(t, err)
	assert.Equal(t, "Title", found.Title)

	_, err = service.GetByID(99)
	require.Error(t, err)
	assert.True(t, fault.IsNotFound(err))
	assert.EqualError(t, err, "Review not found with ID 99")
}

func Test_ListByEpisode(t *testing.T) {
	service := newTestService()

	_, err := service.Add(1, nil, "First")
	require.NoError(t, err)
	_, err = service.Add(1, nil, "Second")
	require.NoError(t, err)
	_, err = service.Add(2, nil, "Other")
	require.NoError(t, err)

	reviews, err := service.ListByEpisode(1)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)

	// An episode with no reviews yields an empty sequence, not a failure.
	reviews, err = service.ListByEpisode(42)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func Test_Update(t *testing.T) {
	service := newTestService()

	created, err := service.Add(1, strPtr("original text"), "Original")
	require.NoError(t, err)

	updated, err := service.Update(created.ReviewID, 1, strPtr("new text"), "Updated")
	require.NoError(t, err)
	assert.Equal(t, "Updated", updated.Title)
	assert.Equal(t, "new text", *updated.Text)
	assert.Equal(t, 1, updated.EpisodeID)
}

func Test_Update_ConflictWithOtherReview(t *testing.T) {
	service := newTestService()

	_, err := service.Add(1, nil, "Taken")
	require.NoError(t, err)
	second, err := service.Add(1, nil, "Mine")
	require.NoError(t, err)

	_, err = service.Update(second.ReviewID, 1, nil, "Taken")
	require.Error(t, err)
	assert.True(t, fault.IsConflict(err))

	unchanged, err := service.GetByID(second.ReviewID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", unchanged.Title, "failed update must not mutate stored state")
}

func Test_Update_KeepingOwnTitle(t *testing.T) {
	service := newTestService()

	created, err := service.Add(1, strPtr("v1"), "Stable Title")
	require.NoError(t, err)

	updated, err := service.Update(created.ReviewID, 1, strPtr("v2"), "Stable Title")
	require.NoError(t, err)
	assert.Equal(t, "v2", *updated.Text)
}

func Test_Update_NotFound(t *testing.T) {
	service := newTestService()

	_, err := service.Update(99, 1, nil, "Whatever")
	require.Error(t, err)
	assert.True(t, fault.IsNotFound(err))
	assert.EqualError(t, err, "Review not found with ID 99")
}

func Test_DeleteByID(t *testing.T) {
	service := newTestService()

	created, err := service.Add(1, nil, "Title")
	require.NoError(t, err)

	require.NoError(t, service.DeleteByID(created.ReviewID))

	err = service.DeleteByID(created.ReviewID)
	require.Error(t, err)
	assert.True(t, fault.IsNotFound(err))
	assert.EqualError(t, err, "Review not found with ID 1")
}
