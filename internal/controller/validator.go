package controller

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/krakosik/runway/internal/dto"
	"github.com/labstack/echo/v4"
)

type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() echo.Validator {
	return &requestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *requestValidator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return fmt.Errorf("%w: %v", dto.ErrInvalidArgument, err)
	}
	return fmt.Errorf("%w: %s", dto.ErrInvalidArgument, fieldMessage(fieldErrors[0]))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "All fields are required."
	case "email":
		return "Please enter a valid email address."
	case "eqfield":
		return "Passwords do not match."
	case "min":
		if fe.Field() == "Password" {
			return "Password must be at least 6 characters."
		}
		return fmt.Sprintf("%s must be at least %s characters.", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s.", fe.Field(), fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL.", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid.", fe.Field())
	}
}

// bindAndValidate decodes the request body into request and runs its validate tags.
func bindAndValidate(c echo.Context, request interface{}) error {
	if err := c.Bind(request); err != nil {
		return fmt.Errorf("%w: malformed request body", dto.ErrInvalidArgument)
	}
	return c.Validate(request)
}
