package client

import (
	"context"
	"fmt"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/krakosik/runway/internal/dto"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// AuthClient is the part of the Firebase Admin auth client the service relies on. Both verify
// calls reject credentials issued before the user's tokens were revoked.
type AuthClient interface {
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*auth.Token, error)
	VerifySessionCookieAndCheckRevoked(ctx context.Context, sessionCookie string) (*auth.Token, error)
	SessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

type TokenExpireVerifier func(err error) bool

// disabledAuthClient stands in when no service account is configured. Every call fails with
// dto.ErrUnavailable.
type disabledAuthClient struct{}

func (disabledAuthClient) unavailable() error {
	return fmt.Errorf("%w: firebase auth is not configured", dto.ErrUnavailable)
}

func (d disabledAuthClient) VerifyIDTokenAndCheckRevoked(context.Context, string) (*auth.Token, error) {
	return nil, d.unavailable()
}

func (d disabledAuthClient) VerifySessionCookieAndCheckRevoked(context.Context, string) (*auth.Token, error) {
	return nil, d.unavailable()
}

func (d disabledAuthClient) SessionCookie(context.Context, string, time.Duration) (string, error) {
	return "", d.unavailable()
}

func (d disabledAuthClient) RevokeRefreshTokens(context.Context, string) error {
	return d.unavailable()
}

// PasswordSession is what the identity provider hands back after a successful email/password call.
type PasswordSession struct {
	UID          string
	Email        string
	DisplayName  string
	IDToken      string
	RefreshToken string
}

// PasswordClient signs users up and in with email and password. The Admin SDK cannot check
// passwords, so this goes through the Identity Toolkit REST API with the project's web API key.
type PasswordClient interface {
	SignUp(ctx context.Context, email, password, displayName string) (PasswordSession, error)
	SignIn(ctx context.Context, email, password string) (PasswordSession, error)
}

type identityToolkitClient struct {
	relyingParty *identitytoolkit.RelyingpartyService
}

func NewPasswordClient(ctx context.Context, apiKey string) (PasswordClient, error) {
	svc, err := identitytoolkit.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &identityToolkitClient{relyingParty: svc.Relyingparty}, nil
}

func (c *identityToolkitClient) SignUp(ctx context.Context, email, password, displayName string) (PasswordSession, error) {
	resp, err := c.relyingParty.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	}).Context(ctx).Do()
	if err != nil {
		return PasswordSession{}, err
	}

	return PasswordSession{
		UID:          resp.LocalId,
		Email:        resp.Email,
		DisplayName:  resp.DisplayName,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

func (c *identityToolkitClient) SignIn(ctx context.Context, email, password string) (PasswordSession, error) {
	resp, err := c.relyingParty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return PasswordSession{}, err
	}

	return PasswordSession{
		UID:          resp.LocalId,
		Email:        resp.Email,
		DisplayName:  resp.DisplayName,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}
