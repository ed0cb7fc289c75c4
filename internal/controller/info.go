package controller

import (
	"net/http"

	"github.com/krakosik/runway/internal/dto"
	"github.com/labstack/echo/v4"
)

// Version is set at build time with -ldflags "-X github.com/krakosik/runway/internal/controller.Version=...".
var Version = "dev"

type InfoController interface {
	Info(c echo.Context) error
}

type infoController struct {
	store string
}

func newInfoController(config dto.Config) InfoController {
	return &infoController{store: config.StoreDriver}
}

func (i *infoController) Info(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.InfoResponse{
		Name:    "runway",
		Version: Version,
		Store:   i.store,
	})
}
