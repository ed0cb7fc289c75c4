package controller

import (
	"net/http"

	"github.com/krakosik/runway/internal/dto"
	"github.com/krakosik/runway/internal/service"
	"github.com/labstack/echo/v4"
)

type WardrobeController interface {
	List(c echo.Context) error
	Add(c echo.Context) error
	Delete(c echo.Context) error
	Style(c echo.Context) error
	EventStyle(c echo.Context) error
	WeatherStyle(c echo.Context) error
}

type wardrobeController struct {
	wardrobeService service.WardrobeService
}

func newWardrobeController(wardrobeService service.WardrobeService) WardrobeController {
	return &wardrobeController{wardrobeService: wardrobeService}
}

func (w *wardrobeController) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	items, err := w.wardrobeService.ListItems(c.Request().Context(), user.ID, c.QueryParam("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (w *wardrobeController) Add(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var request dto.WardrobeItemRequest
	if err := bindAndValidate(c, &request); err != nil {
		return err
	}

	item, err := w.wardrobeService.AddItem(c.Request().Context(), user.ID, request)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

func (w *wardrobeController) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := w.wardrobeService.DeleteItem(c.Request().Context(), user.ID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (w *wardrobeController) Style(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var request dto.StyleRequest
	if err := bindAndValidate(c, &request); err != nil {
		return err
	}

	style, err := w.wardrobeService.Recommend(c.Request().Context(), user.ID, request.Occasion, request.Weather)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, style)
}

func (w *wardrobeController) EventStyle(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	style, err := w.wardrobeService.RecommendForEvent(c.Request().Context(), user.ID, c.Param("eventId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, style)
}

func (w *wardrobeController) WeatherStyle(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var request dto.WeatherRequest
	if err := bindAndValidate(c, &request); err != nil {
		return err
	}

	style, err := w.wardrobeService.RecommendForWeather(c.Request().Context(), user.ID, *request.Temperature, request.Conditions)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, style)
}
