package jwt

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/tvcat/tvcat/pkg/logger"
)

const (
	AuthTokenLifespan = time.Hour

	authHeaderPrefix = "Bearer "
	contextUserKey   = "authenticated-user"
)

var (
	ErrAuthTokenMissing = errors.New("request does not contain required auth token")

	log = logger.Get("JWT-Auth")
)

type (
	// AuthenticatedUser is the identity extracted from a verified token.
	AuthenticatedUser struct {
		UserID int
		Email  string
	}

	authTokenClaims struct {
		jwt.RegisteredClaims
		Email  string `json:"email"`
		UserID int    `json:"userId"`
	}

	// Provider issues and verifies the signed tokens which guard the
	// episode routes. The signing secret should be >= 256 bits.
	Provider struct {
		authTokenSecret []byte
	}
)

func NewProvider(authTokenSecret []byte) *Provider {
	return &Provider{authTokenSecret: authTokenSecret}
}

// GenerateToken creates a signed auth token carrying the user's ID and
// email, valid for AuthTokenLifespan.
func (auth *Provider) GenerateToken(userID int, email string) (string, error) {
	now := time.Now()
	claims := authTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AuthTokenLifespan)),
		},
		Email:  email,
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(auth.authTokenSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign auth token: %w", err)
	}

	return signed, nil
}

// ValidateToken parses and verifies a signed token, returning the
// authenticated user it represents.
func (auth *Provider) ValidateToken(tokenString string) (*AuthenticatedUser, error) {
	claims := &authTokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected token signing method %v", token.Header["alg"])
		}

		return auth.authTokenSecret, nil
	})
	if err != nil {
		return nil, err
	}

	return &AuthenticatedUser{UserID: claims.UserID, Email: claims.Email}, nil
}

// Middleware returns an echo middleware enforcing a valid Bearer token on
// the wrapped routes, storing the authenticated user in the request
// context for handlers that want it.
func (auth *Provider) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ec echo.Context) error {
			header := ec.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, authHeaderPrefix) {
				return echo.NewHTTPError(http.StatusUnauthorized, ErrAuthTokenMissing.Error())
			}

			authenticatedUser, err := auth.ValidateToken(strings.TrimPrefix(header, authHeaderPrefix))
			if err != nil {
				log.Warnf("Rejecting request with invalid auth token: %v\n", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid auth token")
			}

			ec.Set(contextUserKey, authenticatedUser)
			return next(ec)
		}
	}
}

// GetAuthenticatedUserFromContext returns the user stored by the
// middleware, if any.
func GetAuthenticatedUserFromContext(ec echo.Context) (*AuthenticatedUser, error) {
	authenticatedUser, ok := ec.Get(contextUserKey).(*AuthenticatedUser)
	if !ok {
		return nil, errors.New("no authenticated user in request context")
	}

	return authenticatedUser, nil
}
