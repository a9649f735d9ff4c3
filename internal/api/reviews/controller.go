package reviews

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/tvcat/tvcat/internal/api/util"
	"github.com/tvcat/tvcat/internal/review"
)

type (
	Service interface {
		List() ([]*review.Review, error)
		Count() (int, error)
		ListByEpisode(episodeID int) ([]*review.Review, error)
		GetByID(reviewID int) (*review.Review, error)
		Add(episodeID int, text *string, title string) (*review.Review, error)
		Update(reviewID int, episodeID int, newText *string, newTitle string) (*review.Review, error)
		DeleteByID(reviewID int) error
	}

	createReviewBody struct {
		EpisodeID *int    `json:"episodeID" validate:"required,gt=0"`
		Text      *string `json:"text" validate:"required,max=150"`
		Title     string  `json:"title" validate:"required,max=50"`
	}

	// updateReviewBody carries the review and episode IDs in the body;
	// the episode ID only scopes the title uniqueness re-check.
	updateReviewBody struct {
		ReviewID  *int    `json:"reviewID" validate:"required,gte=1"`
		EpisodeID *int    `json:"episodeID" validate:"required,gte=1"`
		Text      *string `json:"text" validate:"omitempty,max=150"`
		Title     string  `json:"title" validate:"required,max=50"`
	}

	Controller struct {
		validate *validator.Validate
		service  Service
	}
)

func New(validate *validator.Validate, service Service) *Controller {
	return &Controller{validate: validate, service: service}
}

func (controller *Controller) SetRoutes(eg *echo.Group) {
	eg.GET("/", controller.list)
	eg.GET("/length/", controller.count)
	eg.GET("/id/:id/", controller.getByID)
	eg.GET("/ep/:id/", controller.listByEpisode)

	eg.POST("/", controller.create)

	eg.PUT("/id/:id/", controller.update)

	eg.DELETE("/id/:id/", controller.deleteByID)
}

func (controller *Controller) list(ec echo.Context) error {
	reviews, err := controller.service.List()
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, util.ApplyConversion(reviews, reviewToDto))
}

func (controller *Controller) count(ec echo.Context) error {
	count, err := controller.service.Count()
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, count)
}

func (controller *Controller) getByID(ec echo.Context) error {
	reviewID, err := util.PositiveIntParam(ec, "id")
	if err != nil {
		return err
	}

	found, err := controller.service.GetByID(reviewID)
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, reviewToDto(found))
}

func (controller *Controller) listByEpisode(ec echo.Context) error {
	episodeID, err := util.PositiveIntParam(ec, "id")
	if err != nil {
		return err
	}

	reviews, err := controller.service.ListByEpisode(episodeID)
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, util.ApplyConversion(reviews, reviewToDto))
}

func (controller *Controller) create(ec echo.Context) error {
	var body createReviewBody
	if err := ec.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := util.Validate(controller.validate, body); err != nil {
		return err
	}

	created, err := controller.service.Add(*body.EpisodeID, body.Text, body.Title)
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusCreated, map[string]any{
		"message":   "Review added successfully!",
		"newReview": reviewToDto(created),
	})
}

func (controller *Controller) update(ec echo.Context) error {
	var body updateReviewBody
	if err := ec.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := util.Validate(controller.validate, body); err != nil {
		return err
	}

	if _, err := controller.service.Update(*body.ReviewID, *body.EpisodeID, body.Text, body.Title); err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, map[string]any{"message": "Review updated"})
}

func (controller *Controller) deleteByID(ec echo.Context) error {
	reviewID, err := util.PositiveIntParam(ec, "id")
	if err != nil {
		return err
	}

	if err := controller.service.DeleteByID(reviewID); err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, map[string]any{"message": "Review deleted successfully!"})
}
