package episodes

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/tvcat/tvcat/internal/api/util"
	"github.com/tvcat/tvcat/internal/episode"
)

type (
	// Service is the episode domain surface this controller drives.
	Service interface {
		List() ([]*episode.Episode, error)
		Count() (int, error)
		GetByID(id int) (*episode.Episode, error)
		GetByTitle(title string) (*episode.Episode, error)
		ListByPage(pageNumber int, pageSize int) ([]*episode.Episode, error)
		ListSorted() ([]*episode.Episode, error)
		ListBySeason(season int) ([]*episode.Episode, error)
		ListByRating(rating float64) ([]*episode.Episode, error)
		Search(title string) ([]*episode.Episode, error)
		SeasonCounts() (map[int]int, error)
		Add(title string, season int, episodeNumber int, rating float64) (*episode.Episode, error)
		Update(id int, title *string, season *int, episodeNumber *int, rating *float64) (*episode.Episode, error)
		DeleteByID(id int) error
		DeleteByTitle(title string) error
	}

	// episodeBody is the create/update request schema. All fields are
	// required; a rating of 0 is legal, hence the pointer fields.
	episodeBody struct {
		Title         string   `json:"title" validate:"required"`
		Season        *int     `json:"season" validate:"required,gt=0"`
		EpisodeNumber *int     `json:"episode_number" validate:"required,gt=0"`
		Rating        *float64 `json:"rating" validate:"required,gte=0,lte=10"`
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
	eg.GET("/title/:title/", controller.getByTitle)
	eg.GET("/page/:page/:items/", controller.listByPage)
	eg.GET("/sorted/", controller.listSorted)
	eg.GET("/season/:season/", controller.listBySeason)
	eg.GET("/rating/:rating/", controller.listByRating)
	eg.GET("/search/:title/", controller.search)
	eg.GET("/pie-chart-data/", controller.seasonCounts)

	eg.POST("/", controller.create)

	eg.PUT("/id/:id/", controller.update)

	eg.DELETE("/:id/", controller.deleteByID)
	eg.DELETE("/title/:title/", controller.deleteByTitle)
}

func (controller *Controller) list(ec echo.Context) error {
	episodes, err := controller.service.List()
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, util.ApplyConversion(episodes, episodeToDto))
}

func (controller *Controller) count(ec echo.Context) error {
	count, err := controller.service.Count()
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, count)
}

func (controller *Controller) getByID(ec echo.Context) error {
	id, err := util.PositiveIntParam(ec, "id")
	if err != nil {
		return err
	}

	found, err := controller.service.GetByID(id)
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, episodeToDto(found))
}

func (controller *Controller) getByTitle(ec echo.Context) error {
	title, err := util.NonEmptyStringParam(ec, "title")
	if err != nil {
		return err
	}

	found, err := controller.service.GetByTitle(title)
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, episodeToDto(found))
}

// listByPage deliberately skips strict parsing of the two path params:
// a non-numeric value becomes zero and the service answers with its own
// pagination failure message.
func (controller *Controller) listByPage(ec echo.Context) error {
	page, _ := strconv.Atoi(ec.Param("page"))
	items, _ := strconv.Atoi(ec.Param("items"))

	episodes, err := controller.service.ListByPage(page, items)
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, util.ApplyConversion(episodes, episodeToDto))
}

func (controller *Controller) listSorted(ec echo.Context) error {
	episodes, err := controller.service.ListSorted()
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, util.ApplyConversion(episodes, episodeToDto))
}

func (controller *Controller) listBySeason(ec echo.Context) error {
	season, err := util.PositiveIntParam(ec, "season")
	if err != nil {
		return err
	}

	episodes, err := controller.service.ListBySeason(season)
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, util.ApplyConversion(episodes, episodeToDto))
}

func (controller *Controller) listByRating(ec echo.Context) error {
	rating, err := util.RatingParam(ec, "rating")
	if err != nil {
		return err
	}

	episodes, err := controller.service.ListByRating(rating)
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, util.ApplyConversion(episodes, episodeToDto))
}

func (controller *Controller) search(ec echo.Context) error {
	title, err := util.NonEmptyStringParam(ec, "title")
	if err != nil {
		return err
	}

	episodes, err := controller.service.Search(title)
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, util.ApplyConversion(episodes, episodeToDto))
}

func (controller *Controller) seasonCounts(ec echo.Context) error {
	counts, err := controller.service.SeasonCounts()
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, counts)
}

func (controller *Controller) create(ec echo.Context) error {
	var body episodeBody
	if err := ec.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := util.Validate(controller.validate, body); err != nil {
		return err
	}

	created, err := controller.service.Add(body.Title, *body.Season, *body.EpisodeNumber, *body.Rating)
	if err != nil {
		return err
	}

	return ec.JSON(http.StatusCreated, map[string]any{
		"message":    "Episode created successfully",
		"newEpisode": episodeToDto(created),
	})
}

func (controller *Controller) update(ec echo.Context) error {
	id, err := util.PositiveIntParam(ec, "id")
	if err != nil {
		return err
	}

	var body episodeBody
	if err := ec.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := util.Validate(controller.validate, body); err != nil {
		return err
	}

	if _, err := controller.service.Update(id, &body.Title, body.Season, body.EpisodeNumber, body.Rating); err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, map[string]any{"message": "Episode updated"})
}

func (controller *Controller) deleteByID(ec echo.Context) error {
	id, err := util.PositiveIntParam(ec, "id")
	if err != nil {
		return err
	}

	if err := controller.service.DeleteByID(id); err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, map[string]any{"message": "Episode deleted successfully!"})
}

func (controller *Controller) deleteByTitle(ec echo.Context) error {
	title, err := util.NonEmptyStringParam(ec, "title")
	if err != nil {
		return err
	}

	if err := controller.service.DeleteByTitle(title); err != nil {
		return err
	}

	return ec.JSON(http.StatusOK, map[string]any{"message": "Episode deleted successfully!"})
}
