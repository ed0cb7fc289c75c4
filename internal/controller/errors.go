package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/krakosik/runway/internal/dto"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

var statusBySentinel = []struct {
	sentinel error
	status   int
}{
	{dto.ErrInvalidArgument, http.StatusBadRequest},
	{dto.ErrNotAuthorized, http.StatusUnauthorized},
	{dto.ErrNotFound, http.StatusNotFound},
	{dto.ErrConflict, http.StatusConflict},
	{dto.ErrTooManyRequests, http.StatusTooManyRequests},
	{dto.ErrUnavailable, http.StatusServiceUnavailable},
}

// ErrorHandler writes every handler error as {"error": message}. Internal failures are logged and
// reported without detail.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, message := describeError(err)
	if status >= http.StatusInternalServerError {
		logrus.Errorf("%s %s failed: %v", c.Request().Method, c.Path(), err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, dto.ErrorResponse{Error: message})
	}
	if err != nil {
		logrus.Errorf("Failed to write error response: %v", err)
	}
}

func describeError(err error) (int, string) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, fmt.Sprint(httpErr.Message)
	}

	status := http.StatusInternalServerError
	var sentinel error
	for _, s := range statusBySentinel {
		if errors.Is(err, s.sentinel) {
			status, sentinel = s.status, s.sentinel
			break
		}
	}

	var authErr *dto.AuthError
	switch {
	case errors.As(err, &authErr):
		return status, authErr.Message
	case status == http.StatusInternalServerError:
		return status, dto.ErrInternalFailure.Error()
	default:
		return status, publicMessage(err, sentinel)
	}
}

// publicMessage drops the sentinel prefix so clients only see the detail that follows it.
func publicMessage(err, sentinel error) string {
	message := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.Index(message, prefix); i >= 0 {
		return message[i+len(prefix):]
	}
	return message
}
