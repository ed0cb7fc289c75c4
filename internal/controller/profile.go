package controller

import (
	"fmt"
	"net/http"

	"github.com/krakosik/runway/internal/dto"
	"github.com/krakosik/runway/internal/service"
	"github.com/labstack/echo/v4"
)

type ProfileController interface {
	Get(c echo.Context) error
	Update(c echo.Context) error
	ListFavorites(c echo.Context) error
	AddFavorite(c echo.Context) error
	RemoveFavorite(c echo.Context) error
	Suggestions(c echo.Context) error
	UploadImage(c echo.Context) error
	DeleteImage(c echo.Context) error
	RegisterPushToken(c echo.Context) error
}

type profileController struct {
	profileService    service.ProfileService
	mediaService      service.MediaService
	suggestionService service.SuggestionService
}

func newProfileController(
	profileService service.ProfileService,
	mediaService service.MediaService,
	suggestionService service.SuggestionService,
) ProfileController {
	return &profileController{
		profileService:    profileService,
		mediaService:      mediaService,
		suggestionService: suggestionService,
	}
}

func (p *profileController) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	profile, err := p.profileService.GetProfile(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

func (p *profileController) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var request dto.UpdateProfileRequest
	if err := bindAndValidate(c, &request); err != nil {
		return err
	}

	profile, err := p.profileService.UpdateProfile(c.Request().Context(), user.ID, request.ProfileUpdate())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

func (p *profileController) ListFavorites(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	events, err := p.profileService.ListFavoriteEvents(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

func (p *profileController) AddFavorite(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := p.profileService.AddFavorite(c.Request().Context(), user.ID, c.Param("eventId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (p *profileController) RemoveFavorite(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := p.profileService.RemoveFavorite(c.Request().Context(), user.ID, c.Param("eventId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (p *profileController) Suggestions(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	result, err := p.suggestionService.Suggest(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (p *profileController) UploadImage(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	header, err := c.FormFile("file")
	if err != nil {
		return fmt.Errorf("%w: multipart field \"file\" is required", dto.ErrInvalidArgument)
	}
	file, err := header.Open()
	if err != nil {
		return fmt.Errorf("%w: %v", dto.ErrInvalidArgument, err)
	}
	defer file.Close()

	contentType := header.Header.Get(echo.HeaderContentType)
	image, err := p.mediaService.UploadImage(c.Request().Context(), user.ID, c.Param("folder"), header.Filename, contentType, file)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, image)
}

func (p *profileController) DeleteImage(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := p.mediaService.DeleteImage(c.Request().Context(), user.ID, c.Param("folder"), c.Param("name")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (p *profileController) RegisterPushToken(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var request dto.PushTokenRequest
	if err := bindAndValidate(c, &request); err != nil {
		return err
	}

	token, err := p.profileService.RegisterPushToken(c.Request().Context(), user.ID, request)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, token)
}
