package internal

import (
	"context"

	"github.com/tvcat/tvcat/internal/api"
	"github.com/tvcat/tvcat/internal/database"
	"github.com/tvcat/tvcat/internal/episode"
	"github.com/tvcat/tvcat/internal/review"
	"github.com/tvcat/tvcat/internal/user"
	"github.com/tvcat/tvcat/pkg/logger"
)

var log = logger.Get("Core")

type (
	RunnableService interface {
		Run(context.Context) error
	}

	// tvcatImpl is the top-level object for the server: it connects the
	// database, wires the stores in to their domain services, and runs the
	// REST gateway until stopped.
	tvcatImpl struct {
		config TvcatConfig
	}
)

func New(config TvcatConfig) *tvcatImpl {
	return &tvcatImpl{config: config}
}

// Run brings up the database connection (including migrations), constructs
// the domain services and the REST gateway, and blocks until the gateway
// stops or the provided context is cancelled.
func (tvcat *tvcatImpl) Run(parent context.Context) error {
	log.Emit(logger.NEW, "Connecting to database...\n")
	db := database.New()
	if err := db.Connect(tvcat.config.Database); err != nil {
		return err
	}

	sqlxDb := db.GetSqlxDb()
	episodeService := episode.NewService(sqlxDb, episode.NewStore())
	reviewService := review.NewService(sqlxDb, review.NewStore())
	userService := user.NewService(sqlxDb, user.NewStore())

	gateway := api.NewRestGateway(&tvcat.config.Rest, episodeService, reviewService, userService, user.NewHasher())

	log.Emit(logger.SUCCESS, "Services constructed, starting REST gateway on %s\n", tvcat.config.Rest.HostAddr)
	return gateway.Run(parent)
}
