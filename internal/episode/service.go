package episode

import (
	"github.com/tvcat/tvcat/internal/database"
	"github.com/tvcat/tvcat/internal/fault"
	"github.com/tvcat/tvcat/pkg/logger"
)

var log = logger.Get("EpisodeService")

type (
	// EpisodeStore is the persistence surface the service depends on.
	// Satisfied by *Store; tests substitute an in-memory implementation.
	EpisodeStore interface {
		GetAll(db database.Queryable) ([]*Episode, error)
		Count(db database.Queryable) (int, error)
		GetByID(db database.Queryable, id int) (*Episode, error)
		GetByTitle(db database.Queryable, title string) (*Episode, error)
		GetPage(db database.Queryable, limit int, offset int) ([]*Episode, error)
		GetSortedByTitle(db database.Queryable) ([]*Episode, error)
		GetBySeason(db database.Queryable, season int) ([]*Episode, error)
		GetByRating(db database.Queryable, rating float64) ([]*Episode, error)
		SearchByTitle(db database.Queryable, title string) ([]*Episode, error)
		GetSeasonCounts(db database.Queryable) (map[int]int, error)
		Insert(db database.Queryable, episode *Episode) (*Episode, error)
		Update(db database.Queryable, episode *Episode) (*Episode, error)
		DeleteByID(db database.Queryable, id int) (bool, error)
		DeleteByTitle(db database.Queryable, title string) error
	}

	// Service owns the episode lifecycle rules: case-insensitive title
	// uniqueness, title normalization, pagination bounds and the season
	// aggregate. It holds no state beyond its collaborators.
	Service struct {
		db    database.Queryable
		store EpisodeStore
	}
)

func NewService(db database.Queryable, store EpisodeStore) *Service {
	return &Service{db: db, store: store}
}

func (service *Service) List() ([]*Episode, error) {
	episodes, err := service.store.GetAll(service.db)
	if err != nil {
		return nil, fault.Internal(err)
	}

	return episodes, nil
}

func (service *Service) Count() (int, error) {
	count, err := service.store.Count(service.db)
	if err != nil {
		return 0, fault.Internal(err)
	}

	return count, nil
}

func (service *Service) GetByID(id int) (*Episode, error) {
	episode, err := service.store.GetByID(service.db, id)
	if err != nil {
		return nil, fault.Internal(err)
	}
	if episode == nil {
		return nil, fault.NotFound("Episode not found with ID %d", id)
	}

	return episode, nil
}

func (service *Service) GetByTitle(title string) (*Episode, error) {
	episode, err := service.store.GetByTitle(service.db, NormalizeTitle(title))
	if err != nil {
		return nil, fault.Internal(err)
	}
	if episode == nil {
		return nil, fault.NotFound("Could not find episode")
	}

	return episode, nil
}

// ListByPage returns up to pageSize episodes ordered by ID ascending,
// skipping the first (pageNumber-1)*pageSize rows. There is no upper
// bound on the page size.
func (service *Service) ListByPage(pageNumber int, pageSize int) ([]*Episode, error) {
	if pageNumber <= 0 || pageSize <= 0 {
		return nil, fault.InvalidArgument("Invalid page number or page size")
	}

	offset := (pageNumber - 1) * pageSize
	episodes, err := service.store.GetPage(service.db, pageSize, offset)
	if err != nil {
		return nil, fault.Internal(err)
	}

	return episodes, nil
}

func (service *Service) ListSorted() ([]*Episode, error) {
	episodes, err := service.store.GetSortedByTitle(service.db)
	if err != nil {
		return nil, fault.Internal(err)
	}

	return episodes, nil
}

func (service *Service) ListBySeason(season int) ([]*Episode, error) {
	episodes, err := service.store.GetBySeason(service.db, season)
	if err != nil {
		return nil, fault.Internal(err)
	}

	return episodes, nil
}

func (service *Service) ListByRating(rating float64) ([]*Episode, error) {
	episodes, err := service.store.GetByRating(service.db, rating)
	if err != nil {
		return nil, fault.Internal(err)
	}

	return episodes, nil
}

// Search finds episodes whose title contains the normalized input as a
// case-insensitive substring.
func (service *Service) Search(title string) ([]*Episode, error) {
	episodes, err := service.store.SearchByTitle(service.db, NormalizeTitle(title))
	if err != nil {
		return nil, fault.Internal(err)
	}

	return episodes, nil
}

// SeasonCounts returns the number of episodes per season, covering only
// the seasons which have at least one episode.
func (service *Service) SeasonCounts() (map[int]int, error) {
	counts, err := service.store.GetSeasonCounts(service.db)
	if err != nil {
		return nil, fault.Internal(err)
	}

	return counts, nil
}

// Add creates a new episode. The title is normalized for the uniqueness
// check only; the episode is stored with the title exactly as supplied.
// The check and the insert are two separate statements, so two concurrent
// adds for the same title can both succeed.
func (service *Service) Add(title string, season int, episodeNumber int, rating float64) (*Episode, error) {
	existing, err := service.store.GetByTitle(service.db, NormalizeTitle(title))
	if err != nil {
		return nil, fault.Internal(err)
	}
	if existing != nil {
		return nil, fault.Conflict("An episode with the title '%s' already exists", title)
	}

	created, err := service.store.Insert(service.db, &Episode{
		Title:         title,
		Season:        season,
		EpisodeNumber: episodeNumber,
		Rating:        rating,
		Image:         DefaultImage,
	})
	if err != nil {
		return nil, fault.Internal(err)
	}

	log.Debugf("Created episode %d ('%s')\n", created.ID, created.Title)
	return created, nil
}

// Update replaces the episode's fields, keeping the previous value for any
// field passed as nil. The image is never altered by an update. A new title
// which collides (case-insensitively) with a different episode's title is
// rejected.
func (service *Service) Update(id int, title *string, season *int, episodeNumber *int, rating *float64) (*Episode, error) {
	current, err := service.GetByID(id)
	if err != nil {
		return nil, err
	}

	if title != nil && *title != current.Title {
		existing, err := service.store.GetByTitle(service.db, NormalizeTitle(*title))
		if err != nil {
			return nil, fault.Internal(err)
		}
		if existing != nil && existing.ID != id {
			return nil, fault.Conflict("An episode with the title '%s' already exists", *title)
		}
	}

	updated, err := service.store.Update(service.db, &Episode{
		ID:            id,
		Title:         valueOr(title, current.Title),
		Season:        valueOr(season, current.Season),
		EpisodeNumber: valueOr(episodeNumber, current.EpisodeNumber),
		Rating:        valueOr(rating, current.Rating),
		Image:         current.Image,
	})
	if err != nil {
		return nil, fault.Internal(err)
	}

	return updated, nil
}

func (service *Service) DeleteByID(id int) error {
	deleted, err := service.store.DeleteByID(service.db, id)
	if err != nil {
		return fault.Internal(err)
	}
	if !deleted {
		return fault.NotFound("Episode not found with ID %d", id)
	}

	log.Debugf("Deleted episode %d\n", id)
	return nil
}

// DeleteByTitle looks the episode up using the normalized title under
// case-insensitive comparison, then deletes using literal equality against
// the normalized string. An episode stored with different casing will be
// found by the lookup yet missed by the delete.
func (service *Service) DeleteByTitle(title string) error {
	normalized := NormalizeTitle(title)
	existing, err := service.store.GetByTitle(service.db, normalized)
	if err != nil {
		return fault.Internal(err)
	}
	if existing == nil {
		return fault.NotFound("Episode not found with title %s", title)
	}

	if err := service.store.DeleteByTitle(service.db, normalized); err != nil {
		return fault.Internal(err)
	}

	return nil
}

func valueOr[T any](maybe *T, fallback T) T {
	if maybe == nil {
		return fallback
	}

	return *maybe
}
