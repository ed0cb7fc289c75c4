package controller

import (
	"net/http"
	"time"

	"github.com/krakosik/runway/internal/dto"
	"github.com/krakosik/runway/internal/service"
	"github.com/labstack/echo/v4"
)

type AuthController interface {
	SignUp(c echo.Context) error
	SignIn(c echo.Context) error
	SignOut(c echo.Context) error
}

type authController struct {
	authService   service.AuthService
	sessionTTL    time.Duration
	secureCookies bool
}

func newAuthController(authService service.AuthService, config dto.Config) AuthController {
	return &authController{
		authService:   authService,
		sessionTTL:    config.SessionTTL,
		secureCookies: config.SecureCookies,
	}
}

func (a *authController) SignUp(c echo.Context) error {
	var request dto.SignUpRequest
	if err := bindAndValidate(c, &request); err != nil {
		return err
	}

	result, err := a.authService.SignUp(c.Request().Context(), request)
	if err != nil {
		return err
	}

	a.setSessionCookie(c, result.SessionCookie, a.sessionTTL)
	return c.JSON(http.StatusCreated, result.Response)
}

func (a *authController) SignIn(c echo.Context) error {
	var request dto.SignInRequest
	if err := bindAndValidate(c, &request); err != nil {
		return err
	}

	result, err := a.authService.SignIn(c.Request().Context(), request)
	if err != nil {
		return err
	}

	a.setSessionCookie(c, result.SessionCookie, a.sessionTTL)
	return c.JSON(http.StatusOK, result.Response)
}

func (a *authController) SignOut(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := a.authService.SignOut(c.Request().Context(), user); err != nil {
		return err
	}

	a.setSessionCookie(c, "", -1)
	return c.NoContent(http.StatusNoContent)
}

// setSessionCookie stores value for ttl. A negative ttl deletes the cookie.
func (a *authController) setSessionCookie(c echo.Context, value string, ttl time.Duration) {
	maxAge := int(ttl.Seconds())
	if ttl < 0 {
		maxAge = -1
	}
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
