package auth

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/tvcat/tvcat/internal/api/util"
	"github.com/tvcat/tvcat/internal/user"
	"github.com/tvcat/tvcat/pkg/logger"
)

var log = logger.Get("AuthController")

type (
	Service interface {
		Add(name string, email string, credential user.Credential) (*user.User, error)
		FindForLogin(nameOrEmail string) (*user.User, error)
	}

	// Hasher is the credential collaborator: it derives the hash stored at
	// signup and verifies presented passwords at login.
	Hasher interface {
		GenerateHash(password, salt []byte) (user.Credential, error)
		Compare(hash, salt, password []byte) error
	}

	TokenProvider interface {
		GenerateToken(userID int, email string) (string, error)
	}

	// signupBody mirrors the signup schema: the email's shape is not
	// verified here, only its presence.
	signupBody struct {
		Name     string `json:"name" validate:"required"`
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required,min=8"`
	}

	loginBody struct {
		NameOrEmail string `json:"nameOrEmail" validate:"required"`
		Password    string `json:"password" validate:"required"`
	}

	Controller struct {
		validate *validator.Validate
		service  Service
		hasher   Hasher
		tokens   TokenProvider
	}
)

func New(validate *validator.Validate, service Service, hasher Hasher, tokens TokenProvider) *Controller {
	return &Controller{validate: validate, service: service, hasher: hasher, tokens: tokens}
}

func (controller *Controller) SetRoutes(eg *echo.Group) {
	eg.POST("/signup/", controller.signUp)
	eg.POST("/login/", controller.logIn)
}

func (controller *Controller) signUp(ec echo.Context) error {
	var body signupBody
	if err := ec.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := util.Validate(controller.validate, body); err != nil {
		return err
	}

	credential, err := controller.hasher.GenerateHash([]byte(body.Password), nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "provided password is invalid")
	}

	if _, err := controller.service.Add(body.Name, body.Email, credential); err != nil {
		return err
	}

	return ec.JSON(http.StatusCreated, map[string]any{"message": "User registered"})
}

func (controller *Controller) logIn(ec echo.Context) error {
	var body loginBody
	if err := ec.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := util.Validate(controller.validate, body); err != nil {
		return err
	}

	stored, err := controller.service.FindForLogin(body.NameOrEmail)
	if err != nil {
		return err
	}

	if err := controller.hasher.Compare(stored.HashedPassword, stored.HashSalt, []byte(body.Password)); err != nil {
		log.Warnf("Failed login for user %d: %v\n", stored.ID, err)
		return echo.NewHTTPError(http.StatusUnauthorized, "Incorrect password!")
	}

	token, err := controller.tokens.GenerateToken(stored.ID, stored.Email)
	if err != nil {
		log.Errorf("Failed to generate auth token for user %d: %v\n", stored.ID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to generate auth token")
	}

	return ec.JSON(http.StatusOK, map[string]any{"token": token, "userId": stored.ID})
}
