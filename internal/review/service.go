package review

import (
	"github.com/tvcat/tvcat/internal/database"
	"github.com/tvcat/tvcat/internal/fault"
	"github.com/tvcat/tvcat/pkg/logger"
)

var log = logger.Get("ReviewService")

type (
	ReviewStore interface {
		GetAll(db database.Queryable) ([]*Review, error)
		Count(db database.Queryable) (int, error)
		GetByID(db database.Queryable, reviewID int) (*Review, error)
		GetByEpisode(db database.Queryable, episodeID int) ([]*Review, error)
		GetByEpisodeAndTitle(db database.Queryable, episodeID int, title string) (*Review, error)
		Insert(db database.Queryable, review *Review) (*Review, error)
		Update(db database.Queryable, reviewID int, text *string, title string) (*Review, error)
		DeleteByID(db database.Queryable, reviewID int) (bool, error)
	}

	// Service owns the review lifecycle rules: title uniqueness scoped to a
	// single episode, and text/title-only mutation. The episode an incoming
	// review points at is never checked for existence; a review may reference
	// an episode ID with no matching row as far as this service is concerned.
	Service struct {
		db    database.Queryable
		store ReviewStore
	}
)

func NewService(db database.Queryable, store ReviewStore) *Service {
	return &Service{db: db, store: store}
}

func (service *Service) List() ([]*Review, error) {
	reviews, err := service.store.GetAll(service.db)
	if err != nil {
		return nil, fault.Internal(err)
	}

	return reviews, nil
}

func (service *Service) Count() (int, error) {
	count, err := service.store.Count(service.db)
	if err != nil {
		return 0, fault.Internal(err)
	}

	return count, nil
}

func (service *Service) ListByEpisode(episodeID int) ([]*Review, error) {
	reviews, err := service.store.GetByEpisode(service.db, episodeID)
	if err != nil {
		return nil, fault.Internal(err)
	}

	return reviews, nil
}

func (service *Service) GetByID(reviewID int) (*Review, error) {
	review, err := service.store.GetByID(service.db, reviewID)
	if err != nil {
		return nil, fault.Internal(err)
	}
	if review == nil {
		return nil, fault.NotFound("Review not found with ID %d", reviewID)
	}

	return review, nil
}

// Add creates a new review after checking that no review with the same
// (exact) title exists for the target episode. The check and the insert
// are separate statements, so the same concurrency caveat as episode
// creation applies.
func (service *Service) Add(episodeID int, text *string, title string) (*Review, error) {
	existing, err := service.store.GetByEpisodeAndTitle(service.db, episodeID, title)
	if err != nil {
		return nil, fault.Internal(err)
	}
	if existing != nil {
		return nil, fault.Conflict("A review with the title '%s' already exists for this episode", title)
	}

	created, err := service.store.Insert(service.db, &Review{
		EpisodeID: episodeID,
		Text:      text,
		Title:     title,
	})
	if err != nil {
		return nil, fault.Internal(err)
	}

	log.Debugf("Created review %d for episode %d\n", created.ReviewID, created.EpisodeID)
	return created, nil
}

// Update replaces the text and title of a review. The episodeID parameter
// scopes the title uniqueness re-check only; the review's episode linkage
// itself is immutable.
func (service *Service) Update(reviewID int, episodeID int, newText *string, newTitle string) (*Review, error) {
	existing, err := service.store.GetByEpisodeAndTitle(service.db, episodeID, newTitle)
	if err != nil {
		return nil, fault.Internal(err)
	}
	if existing != nil && existing.ReviewID != reviewID {
		return nil, fault.Conflict("A review with the title '%s' already exists for this episode", newTitle)
	}

	current, err := service.store.GetByID(service.db, reviewID)
	if err != nil {
		return nil, fault.Internal(err)
	}
	if current == nil {
		return nil, fault.NotFound("Review not found with ID %d", reviewID)
	}

	updated, err := service.store.Update(service.db, reviewID, newText, newTitle)
	if err != nil {
		return nil, fault.Internal(err)
	}

	return updated, nil
}

func (service *Service) DeleteByID(reviewID int) error {
	deleted, err := service.store.DeleteByID(service.db, reviewID)
	if err != nil {
		return fault.Internal(err)
	}
	if !deleted {
		return fault.NotFound("Review not found with ID %d", reviewID)
	}

	log.Debugf("Deleted review %d\n", reviewID)
	return nil
}
