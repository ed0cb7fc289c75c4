package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/krakosik/runway/internal/dto"
	"google.golang.org/api/googleapi"
)

const (
	MsgInvalidCredentials = "Invalid email or password."
	MsgInvalidEmail       = "Invalid email address format."
	MsgUserDisabled       = "This account has been disabled."
	MsgTooManyAttempts    = "Too many failed login attempts. Please try again later."
	MsgNetworkFailure     = "Network error. Please check your connection."
	MsgEmailInUse         = "This email is already in use. Please try another one."
	MsgWeakPassword       = "Password is too weak. Please use a stronger password."
	MsgSignInFailed       = "Failed to sign in. Please try again."
	MsgSignUpFailed       = "Failed to create account. Please try again."
)

type providerFailure struct {
	message  string
	sentinel error
}

var providerFailures = map[string]providerFailure{
	"EMAIL_NOT_FOUND":             {MsgInvalidCredentials, dto.ErrNotAuthorized},
	"INVALID_PASSWORD":            {MsgInvalidCredentials, dto.ErrNotAuthorized},
	"INVALID_LOGIN_CREDENTIALS":   {MsgInvalidCredentials, dto.ErrNotAuthorized},
	"INVALID_EMAIL":               {MsgInvalidEmail, dto.ErrInvalidArgument},
	"USER_DISABLED":               {MsgUserDisabled, dto.ErrNotAuthorized},
	"TOO_MANY_ATTEMPTS_TRY_LATER": {MsgTooManyAttempts, dto.ErrTooManyRequests},
	"EMAIL_EXISTS":                {MsgEmailInUse, dto.ErrConflict},
	"WEAK_PASSWORD":               {MsgWeakPassword, dto.ErrInvalidArgument},
}

// providerCode extracts the Identity Toolkit error code, e.g. "WEAK_PASSWORD" from
// "WEAK_PASSWORD : Password should be at least 6 characters".
func providerCode(err error) string {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return ""
	}
	message := apiErr.Message
	if message == "" && len(apiErr.Errors) > 0 {
		message = apiErr.Errors[0].Message
	}
	code, _, _ := strings.Cut(message, " ")
	return strings.TrimSpace(code)
}

func isNetworkFailure(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded)
}

// mapProviderError turns an identity provider failure into an AuthError carrying the message
// shown to the user. fallback is used for codes with no specific message.
func mapProviderError(err error, fallback string) error {
	code := providerCode(err)
	if failure, ok := providerFailures[code]; ok {
		return &dto.AuthError{Code: code, Message: failure.message, Err: fmt.Errorf("%w: %v", failure.sentinel, err)}
	}
	if isNetworkFailure(err) {
		return &dto.AuthError{Code: "NETWORK_REQUEST_FAILED", Message: MsgNetworkFailure, Err: fmt.Errorf("%w: %v", dto.ErrUnavailable, err)}
	}
	return &dto.AuthError{Code: code, Message: fallback, Err: fmt.Errorf("%w: %v", dto.ErrInternalFailure, err)}
}
