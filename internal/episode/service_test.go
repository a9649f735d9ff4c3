package episode_test

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tvcat/tvcat/internal/database"
	"github.com/tvcat/tvcat/internal/episode"
	"github.com/tvcat/tvcat/internal/fault"
)

// memoryStore is an in-memory EpisodeStore mirroring the comparison
// semantics of the SQL store: case-insensitive lookup by title,
// literal-equality delete by title.
type memoryStore struct {
	episodes map[int]*episode.Episode
	nextID   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{episodes: make(map[int]*episode.Episode), nextID: 1}
}

func (s *memoryStore) all() []*episode.Episode {
	out := make([]*episode.Episode, 0, len(s.episodes))
	for _, e := range s.episodes {
		copied := *e
		out = append(out, &copied)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memoryStore) GetAll(_ database.Queryable) ([]*episode.Episode, error) {
	return s.all(), nil
}

func (s *memoryStore) Count(_ database.Queryable) (int, error) {
	return len(s.episodes), nil
}

func (s *memoryStore) GetByID(_ database.Queryable, id int) (*episode.Episode, error) {
	if e, ok := s.episodes[id]; ok {
		copied := *e
		return &copied, nil
	}

	return nil, nil
}

func (s *memoryStore) GetByTitle(_ database.Queryable, title string) (*episode.Episode, error) {
	for _, e := range s.all() {
		if strings.EqualFold(e.Title, title) {
			return e, nil
		}
	}

	return nil, nil
}

func (s *memoryStore) GetPage(_ database.Queryable, limit int, offset int) ([]*episode.Episode, error) {
	all := s.all()
	if offset >= len(all) {
		return nil, nil
	}

	end := offset + limit
	if end > len(all) {
		end = len(all)
	}

	return all[offset:end], nil
}

func (s *memoryStore) GetSortedByTitle(_ database.Queryable) ([]*episode.Episode, error) {
	all := s.all()
	sort.Slice(all, func(i, j int) bool { return all[i].Title < all[j].Title })
	return all, nil
}

func (s *memoryStore) GetBySeason(_ database.Queryable, season int) ([]*episode.Episode, error) {
	var out []*episode.Episode
	for _, e := range s.all() {
		if e.Season == season {
			out = append(out, e)
		}
	}

	return out, nil
}

func (s *memoryStore) GetByRating(_ database.Queryable, rating float64) ([]*episode.Episode, error) {
	var out []*episode.Episode
	for _, e := range s.all() {
		if e.Rating == rating {
			out = append(out, e)
		}
	}

	return out, nil
}

func (s *memoryStore) SearchByTitle(_ database.Queryable, title string) ([]*episode.Episode, error) {
	var out []*episode.Episode
	for _, e := range s.all() {
		if strings.Contains(strings.ToLower(e.Title), strings.ToLower(title)) {
			out = append(out, e)
		}
	}

	return out, nil
}

func (s *memoryStore) GetSeasonCounts(_ database.Queryable) (map[int]int, error) {
	counts := make(map[int]int)
	for _, e := range s.episodes {
		counts[e.Season]++
	}

	return counts, nil
}

func (s *memoryStore) Insert(_ database.Queryable, e *episode.Episode) (*episode.Episode, error) {
	created := *e
	created.ID = s.nextID
	s.nextID++
	s.episodes[created.ID] = &created

	copied := created
	return &copied, nil
}

func (s *memoryStore) Update(_ database.Queryable, e *episode.Episode) (*episode.Episode, error) {
	copied := *e
	s.episodes[e.ID] = &copied

	result := copied
	return &result, nil
}

func (s *memoryStore) DeleteByID(_ database.Queryable, id int) (bool, error) {
	if _, ok := s.episodes[id]; !ok {
		return false, nil
	}

	delete(s.episodes, id)
	return true, nil
}

func (s *memoryStore) DeleteByTitle(_ database.Queryable, title string) error {
	for id, e := range s.episodes {
		if e.Title == title {
			delete(s.episodes, id)
		}
	}

	return nil
}

func newTestService() (*episode.Service, *memoryStore) {
	store := newMemoryStore()
	return episode.NewService(nil, store), store
}

func Test_NormalizeTitle(t *testing.T) {
	tests := []struct {
		summary  string
		input    string
		expected string
	}{
		{"lowercases", "The New Episode", "the new episode"},
		{"collapses hyphen runs", "the--new---episode", "the new episode"},
		{"single hyphens become spaces", "the-new-episode", "the new episode"},
		{"trims surrounding whitespace", "  Pilot  ", "pilot"},
		{"leaves inner spaces alone", "a  b", "a  b"},
	}

	for _, tt := range tests {
		t.Run(tt.summary, func(t *testing.T) {
			assert.Equal(t, tt.expected, episode.NormalizeTitle(tt.input))
		})
	}
}

func Test_GetByTitle_MatchesNormalizedVariants(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Add("The New Episode", 1, 1, 5)
	require.NoError(t, err)

	for _, variant := range []string{"The New Episode", "the-new-episode", "  THE NEW EPISODE  "} {
		found, err := service.GetByTitle(variant)
		require.NoError(t, err, "GetByTitle(%q) expected to succeed", variant)
		assert.Equal(t, "The New Episode", found.Title)
	}
}

func Test_GetByTitle_NotFound(t *testing.T) {
	service, _ := newTestService()

	_, err := service.GetByTitle("Non-Existent Episode")
	require.Error(t, err)
	assert.True(t, fault.IsNotFound(err))
	assert.EqualError(t, err, "Could not find episode")
}

func Test_Add_StoresOriginalCasingAndDefaultImage(t *testing.T) {
	service, _ := newTestService()

	created, err := service.Add("  My--Great-Episode ", 2, 3, 7.5)
	require.NoError(t, err)

	assert.Equal(t, "  My--Great-Episode ", created.Title, "stored title must keep the supplied casing and whitespace")
	assert.Equal(t, episode.DefaultImage, created.Image)
	assert.Equal(t, 2, created.Season)
	assert.Equal(t, 3, created.EpisodeNumber)
	assert.Equal(t, 7.5, created.Rating)
}

func Test_Add_DuplicateTitleConflicts(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Add("The New Episode", 1, 1, 5)
	require.NoError(t, err)

	_, err = service.Add("the-new-episode", 1, 2, 6)
	require.Error(t, err)
	assert.True(t, fault.IsConflict(err))
	assert.EqualError(t, err, "An episode with the title 'the-new-episode' already exists")

	count, err := service.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count, "failed add must not change the episode count")
}

func Test_ListByPage(t *testing.T) {
	service, _ := newTestService()

	for _, title := range []string{"A", "B", "C"} {
		_, err := service.Add(title, 1, 1, 5)
		require.NoError(t, err)
	}

	page, err := service.ListByPage(1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "A", page[0].Title)
	assert.Equal(t, "B", page[1].Title)

	page, err = service.ListByPage(2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "C", page[0].Title)
}

func Test_ListByPage_InvalidArguments(t *testing.T) {
	service, _ := newTestService()

	tests := []struct {
		summary    string
		pageNumber int
		pageSize   int
	}{
		{"zero page number", 0, 5},
		{"negative page number", -1, 5},
		{"zero page size", 1, 0},
		{"negative page size", 1, -2},
	}

	for _, tt := range tests {
		t.Run(tt.summary, func(t *testing.T) {
			_, err := service.ListByPage(tt.pageNumber, tt.pageSize)
			require.Error(t, err)
			assert.True(t, fault.IsInvalidArgument(err))
			assert.EqualError(t, err, "Invalid page number or page size")
		})
	}
}

func Test_ListSorted(t *testing.T) {
	service, _ := newTestService()

	for _, title := range []string{"C", "A", "B"} {
		_, err := service.Add(title, 1, 1, 5)
		require.NoError(t, err)
	}

	sorted, err := service.ListSorted()
	require.NoError(t, err)
	require.Len(t, sorted, 3)
	assert.Equal(t, "A", sorted[0].Title)
	assert.Equal(t, "B", sorted[1].Title)
	assert.Equal(t, "C", sorted[2].Title)
}

func Test_SeasonCounts(t *testing.T) {
	service, _ := newTestService()

	seasons := map[int]int{1: 5, 2: 3, 3: 6}
	i := 0
	for season, count := range seasons {
		for n := 0; n < count; n++ {
			_, err := service.Add(strings.Repeat("x", i+1), season, n+1, 5)
			require.NoError(t, err)
			i++
		}
	}

	counts, err := service.SeasonCounts()
	require.NoError(t, err)
	assert.Equal(t, seasons, counts)
}

func Test_Search(t *testing.T) {
	service, _ := newTestService()

	for _, title := range []string{"The Pilot", "Pilot Error", "Finale"} {
		_, err := service.Add(title, 1, 1, 5)
		require.NoError(t, err)
	}

	found, err := service.Search("PILOT")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = service.Search("missing")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func Test_Update_KeepsOmittedFieldsAndImage(t *testing.T) {
	service, _ := newTestService()

	created, err := service.Add("Pilot", 1, 1, 5)
	require.NoError(t, err)

	newSeason := 4
	updated, err := service.Update(created.ID, nil, &newSeason, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "Pilot", updated.Title)
	assert.Equal(t, 4, updated.Season)
	assert.Equal(t, 1, updated.EpisodeNumber)
	assert.Equal(t, float64(5), updated.Rating)
	assert.Equal(t, episode.DefaultImage, updated.Image)
}

func Test_Update_TitleConflict(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Add("First", 1, 1, 5)
	require.NoError(t, err)
	second, err := service.Add("Second", 1, 2, 5)
	require.NoError(t, err)

	conflicting := "first"
	_, err = service.Update(second.ID, &conflicting, nil, nil, nil)
	require.Error(t, err)
	assert.True(t, fault.IsConflict(err))

	// A failed update must leave stored state untouched.
	unchanged, err := service.GetByID(second.ID)
	require.NoError(t, err)
	assert.Equal(t, "Second", unchanged.Title)
}

func Test_Update_SameEpisodeKeepsOwnTitle(t *testing.T) {
	service, _ := newTestService()

	created, err := service.Add("Pilot", 1, 1, 5)
	require.NoError(t, err)

	// Re-casing its own title must not conflict with itself.
	recased := "PILOT"
	updated, err := service.Update(created.ID, &recased, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "PILOT", updated.Title)
}

func Test_Update_NotFound(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Update(99, nil, nil, nil, nil)
	require.Error(t, err)
	assert.True(t, fault.IsNotFound(err))
	assert.EqualError(t, err, "Episode not found with ID 99")
}

func Test_DeleteByID(t *testing.T) {
	service, _ := newTestService()

	created, err := service.Add("Pilot", 1, 1, 5)
	require.NoError(t, err)

	require.NoError(t, service.DeleteByID(created.ID))

	err = service.DeleteByID(created.ID)
	require.Error(t, err)
	assert.True(t, fault.IsNotFound(err))

	count, err := service.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func Test_DeleteByTitle(t *testing.T) {
	service, _ := newTestService()

	// A title which is already in normalized form round-trips cleanly
	// through lookup and delete.
	_, err := service.Add("pilot", 1, 1, 5)
	require.NoError(t, err)

	require.NoError(t, service.DeleteByTitle("Pilot"))

	count, err := service.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func Test_DeleteByTitle_NotFound(t *testing.T) {
	service, _ := newTestService()

	err := service.DeleteByTitle("Ghost Episode")
	require.Error(t, err)
	assert.True(t, fault.IsNotFound(err))
	assert.EqualError(t, err, "Episode not found with title Ghost Episode")
}

func Test_DeleteByTitle_ComparatorMismatch(t *testing.T) {
	service, store := newTestService()

	// The lookup matches case-insensitively but the delete compares the
	// normalized string literally, so an episode stored with different
	// casing survives the delete.
	_, err := service.Add("Pilot", 1, 1, 5)
	require.NoError(t, err)

	require.NoError(t, service.DeleteByTitle("Pilot"))

	count, err := service.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, store.all(), 1)
}
