package controller

import (
	"context"
	"fmt"
	"strings"

	userctx "github.com/krakosik/runway/internal/context"
	"github.com/krakosik/runway/internal/dto"
	"github.com/krakosik/runway/internal/model"
	"github.com/krakosik/runway/internal/service"
	"github.com/labstack/echo/v4"
)

const SessionCookieName = "session"

// Authenticate accepts either a Bearer ID token or the session cookie and puts the signed-in user
// into the request context.
func Authenticate(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			user, err := authenticate(ctx, c, authService)
			if err != nil {
				return err
			}

			c.SetRequest(c.Request().WithContext(userctx.WithUser(ctx, user)))
			return next(c)
		}
	}
}

func authenticate(ctx context.Context, c echo.Context, authService service.AuthService) (model.User, error) {
	if header := c.Request().Header.Get(echo.HeaderAuthorization); header != "" {
		token := strings.TrimPrefix(header, "Bearer ")
		if token == header || token == "" {
			return model.User{}, fmt.Errorf("%w: invalid authorization format", dto.ErrNotAuthorized)
		}
		return authService.ValidateToken(ctx, token)
	}

	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return model.User{}, fmt.Errorf("%w: missing credentials", dto.ErrNotAuthorized)
	}
	return authService.ValidateSessionCookie(ctx, cookie.Value)
}

func currentUser(c echo.Context) (model.User, error) {
	user, ok := userctx.GetUserFromContext(c.Request().Context())
	if !ok {
		return model.User{}, fmt.Errorf("%w: user not found in context", dto.ErrNotAuthorized)
	}
	return user, nil
}
