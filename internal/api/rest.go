package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/tvcat/tvcat/internal/api/auth"
	"github.com/tvcat/tvcat/internal/api/episodes"
	"github.com/tvcat/tvcat/internal/api/jwt"
	"github.com/tvcat/tvcat/internal/api/reviews"
	"github.com/tvcat/tvcat/internal/api/util"
	"github.com/tvcat/tvcat/internal/fault"
	"github.com/tvcat/tvcat/pkg/logger"
)

var log = logger.Get("API")

type (
	RestConfig struct {
		HostAddr        string `yaml:"host_address" env:"API_HOST_ADDR" env-default:"0.0.0.0:8080"`
		AuthTokenSecret string `yaml:"auth_token_secret" env:"API_AUTH_TOKEN_SECRET" env-required:"true"`
	}

	controller interface {
		SetRoutes(*echo.Group)
	}

	// The RestGateway is a thin wrapper around the Echo HTTP router. Its sole
	// responsibility is to create the routes exposed by the catalog, translate
	// domain failures to status codes, and enforce auth middleware where
	// applicable.
	RestGateway struct {
		config            *RestConfig
		ec                *echo.Echo
		authProvider      *jwt.Provider
		episodeController controller
		reviewController  controller
		authController    controller
	}
)

// NewRestGateway constructs the Echo router and populates it with the routes
// defined by the various controllers. Each controller receives the domain
// service it fronts, plus the shared request validator.
func NewRestGateway(
	config *RestConfig,
	episodeService episodes.Service,
	reviewService reviews.Service,
	userService auth.Service,
	hasher auth.Hasher,
) *RestGateway {
	ec := echo.New()
	ec.HidePort = true
	ec.HideBanner = true

	validate := util.NewValidator()
	authProvider := jwt.NewProvider([]byte(config.AuthTokenSecret))

	gateway := &RestGateway{
		config:            config,
		ec:                ec,
		authProvider:      authProvider,
		episodeController: episodes.New(validate, episodeService),
		reviewController:  reviews.New(validate, reviewService),
		authController:    auth.New(validate, userService, hasher, authProvider),
	}

	ec.Use(middleware.Logger())
	ec.Use(middleware.Recover())
	ec.Use(middleware.CORS())
	ec.Pre(middleware.AddTrailingSlash())
	ec.HTTPErrorHandler = gateway.handleError

	ec.GET("/ping/", func(ec echo.Context) error {
		return ec.JSON(http.StatusOK, map[string]any{"message": "Server is up and running"})
	})

	episodeGroup := ec.Group("/episodes", authProvider.Middleware())
	gateway.episodeController.SetRoutes(episodeGroup)

	reviewGroup := ec.Group("/reviews")
	gateway.reviewController.SetRoutes(reviewGroup)

	authGroup := ec.Group("/auth")
	gateway.authController.SetRoutes(authGroup)

	return gateway
}

// Run starts the HTTP listener, blocking until the listener fails or the
// provided context is cancelled.
func (gateway *RestGateway) Run(parentCtx context.Context) error {
	ctx, ctxCancel := context.WithCancelCause(parentCtx)

	go func() {
		if err := gateway.ec.Start(gateway.config.HostAddr); err != nil {
			ctxCancel(err)
		}
	}()

	<-ctx.Done()
	gateway.ec.Close()

	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) && !errors.Is(cause, http.ErrServerClosed) {
		return cause
	}

	return nil
}

// handleError maps failures to their outward JSON form. Domain failures use
// their fault kind; anything unclassified answers 500 with an opaque body.
func (gateway *RestGateway) handleError(err error, ec echo.Context) {
	if ec.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "something broke"

	var httpErr *echo.HTTPError
	switch {
	case errors.Is(err, echo.ErrNotFound):
		code, message = http.StatusNotFound, "route not found"
	case errors.As(err, &httpErr):
		code = httpErr.Code
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
	default:
		switch fault.KindOf(err) {
		case fault.KindInvalidArgument:
			code, message = http.StatusBadRequest, err.Error()
		case fault.KindNotFound:
			code, message = http.StatusNotFound, err.Error()
		case fault.KindConflict:
			code, message = http.StatusConflict, err.Error()
		default:
			log.Errorf("Unexpected failure handling %s %s: %v\n", ec.Request().Method, ec.Request().URL.Path, errors.Unwrap(err))
		}
	}

	if jsonErr := ec.JSON(code, map[string]any{"message": message}); jsonErr != nil {
		log.Errorf("Failed to write error response: %v\n", jsonErr)
	}
}
