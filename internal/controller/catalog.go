package controller

import (
	"net/http"

	"github.com/krakosik/runway/internal/service"
	"github.com/labstack/echo/v4"
)

type CatalogController interface {
	ListEvents(c echo.Context) error
	GetEvent(c echo.Context) error
	ListOutfits(c echo.Context) error
	GetOutfit(c echo.Context) error
}

type catalogController struct {
	catalogService service.CatalogService
}

func newCatalogController(catalogService service.CatalogService) CatalogController {
	return &catalogController{catalogService: catalogService}
}

func (cc *catalogController) ListEvents(c echo.Context) error {
	return c.JSON(http.StatusOK, cc.catalogService.ListEvents(c.Request().Context()))
}

func (cc *catalogController) GetEvent(c echo.Context) error {
	event, err := cc.catalogService.GetEvent(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, event)
}

func (cc *catalogController) ListOutfits(c echo.Context) error {
	return c.JSON(http.StatusOK, cc.catalogService.ListOutfits(c.Request().Context()))
}

func (cc *catalogController) GetOutfit(c echo.Context) error {
	outfit, err := cc.catalogService.GetOutfit(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, outfit)
}
