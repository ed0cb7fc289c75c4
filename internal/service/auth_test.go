package service

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/krakosik/runway/internal/dto"
	"github.com/krakosik/runway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signUpRequest(email string) dto.SignUpRequest {
	return dto.SignUpRequest{
		Email:           email,
		Password:        "secret1",
		ConfirmPassword: "secret1",
		DisplayName:     "Selam",
	}
}

func TestSignUpCreatesProfileAndSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.services.Auth().SignUp(ctx, signUpRequest(" Selam@Example.com "))
	require.NoError(t, err)

	assert.Equal(t, "selam@example.com", result.Response.Email)
	assert.NotEmpty(t, result.Response.IDToken)
	assert.NotEmpty(t, result.SessionCookie)

	profile, err := env.services.Profile().GetProfile(ctx, result.Response.UID)
	require.NoError(t, err)
	assert.Equal(t, "Selam", profile.DisplayName)
	assert.Equal(t, "selam@example.com", profile.Email)

	user, err := env.services.Auth().ValidateSessionCookie(ctx, result.SessionCookie)
	require.NoError(t, err)
	assert.Equal(t, result.Response.UID, user.ID)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.services.Auth().SignUp(ctx, signUpRequest("selam@example.com"))
	require.NoError(t, err)

	_, err = env.services.Auth().SignUp(ctx, signUpRequest("selam@example.com"))
	require.Error(t, err)
	assert.Equal(t, MsgEmailInUse, err.Error())
	assert.True(t, errors.Is(err, dto.ErrConflict))
}

func TestSignInFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.services.Auth().SignUp(ctx, signUpRequest("selam@example.com"))
	require.NoError(t, err)

	_, err = env.services.Auth().SignIn(ctx, dto.SignInRequest{Email: "selam@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, MsgInvalidCredentials, err.Error())
	assert.True(t, errors.Is(err, dto.ErrNotAuthorized))

	_, err = env.services.Auth().SignIn(ctx, dto.SignInRequest{Email: "nobody@example.com", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, MsgInvalidCredentials, err.Error())

	result, err := env.services.Auth().SignIn(ctx, dto.SignInRequest{Email: "SELAM@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "selam@example.com", result.Response.Email)
}

func TestSignInWithoutPasswordClient(t *testing.T) {
	env := newTestEnv(t)
	authService := newAuthService(env.services.Profile(), env.clients.authClient, nil, nil, time.Hour)

	_, err := authService.SignIn(context.Background(), dto.SignInRequest{Email: "a@b.co", Password: "secret1"})
	assert.True(t, errors.Is(err, dto.ErrUnavailable))

	_, err = authService.SignUp(context.Background(), signUpRequest("a@b.co"))
	assert.True(t, errors.Is(err, dto.ErrUnavailable))
}

func TestValidateToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.clients.authClient.issue("token-1", "uid-42", "hana@example.com", "Hana")

	user, err := env.services.Auth().ValidateToken(ctx, "token-1")
	require.NoError(t, err)
	assert.Equal(t, "uid-42", user.ID)

	profile, err := env.services.Profile().GetProfile(ctx, "uid-42")
	require.NoError(t, err)
	assert.Equal(t, "Hana", profile.DisplayName)

	_, err = env.services.Auth().ValidateToken(ctx, "bogus")
	assert.True(t, errors.Is(err, dto.ErrNotAuthorized))
}

func TestValidateTokenExpired(t *testing.T) {
	env := newTestEnv(t)
	verifier := func(err error) bool { return errors.Is(err, errTokenExpired) }
	authService := newAuthService(env.services.Profile(), env.clients.authClient, nil, verifier, time.Hour)

	_, err := authService.ValidateToken(context.Background(), "expired")
	require.Error(t, err)
	assert.True(t, errors.Is(err, dto.ErrNotAuthorized))
	assert.Contains(t, err.Error(), "token expired")
}

func TestValidateTokenWithoutEmailClaim(t *testing.T) {
	env := newTestEnv(t)
	env.clients.authClient.issue("token-1", "uid-1", "", "")
	delete(env.clients.authClient.tokens["token-1"].Claims, "email")

	_, err := env.services.Auth().ValidateToken(context.Background(), "token-1")
	assert.True(t, errors.Is(err, dto.ErrNotAuthorized))
}

func TestSignOutRevokesSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.services.Auth().SignUp(ctx, signUpRequest("selam@example.com"))
	require.NoError(t, err)
	user, err := env.services.Auth().ValidateSessionCookie(ctx, result.SessionCookie)
	require.NoError(t, err)

	require.NoError(t, env.services.Auth().SignOut(ctx, user))
	assert.Contains(t, env.clients.authClient.revokedAt, user.ID)

	_, err = env.services.Auth().ValidateSessionCookie(ctx, result.SessionCookie)
	assert.True(t, errors.Is(err, dto.ErrNotAuthorized))
}

func TestSignOutRevokesBearerToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.services.Auth().SignUp(ctx, signUpRequest("selam@example.com"))
	require.NoError(t, err)
	user, err := env.services.Auth().ValidateToken(ctx, result.Response.IDToken)
	require.NoError(t, err)

	require.NoError(t, env.services.Auth().SignOut(ctx, user))

	_, err = env.services.Auth().ValidateToken(ctx, result.Response.IDToken)
	assert.True(t, errors.Is(err, dto.ErrNotAuthorized))

	again, err := env.services.Auth().SignIn(ctx, dto.SignInRequest{Email: "selam@example.com", Password: "secret1"})
	require.NoError(t, err)
	user, err = env.services.Auth().ValidateToken(ctx, again.Response.IDToken)
	require.NoError(t, err)
	assert.Equal(t, result.Response.UID, user.ID)
}

func TestValidateTokenWhenAuthUnavailable(t *testing.T) {
	env := newTestEnv(t)
	authService := newAuthService(env.services.Profile(), unavailableAuthClient{env.clients.authClient}, nil, nil, time.Hour)

	_, err := authService.ValidateToken(context.Background(), "token-1")
	assert.True(t, errors.Is(err, dto.ErrUnavailable))
	assert.False(t, errors.Is(err, dto.ErrNotAuthorized))
}

func TestOnAuthStateChanged(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var mu sync.Mutex
	var states []AuthState
	unsubscribe := env.services.Auth().OnAuthStateChanged(func(_ context.Context, change AuthStateChange) {
		mu.Lock()
		defer mu.Unlock()
		states = append(states, change.State)
	})

	_, err := env.services.Auth().SignUp(ctx, signUpRequest("selam@example.com"))
	require.NoError(t, err)
	profile, err := env.services.Profile().GetProfile(ctx, "uid-1")
	require.NoError(t, err)
	require.NoError(t, env.services.Auth().SignOut(ctx, profile))

	unsubscribe()
	_, err = env.services.Auth().SignIn(ctx, dto.SignInRequest{Email: "selam@example.com", Password: "secret1"})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []AuthState{AuthStateSignedIn, AuthStateSignedOut}, states)
}

type timeoutError struct{}

func (timeoutError) Error() string { return "i/o timeout" }
func (timeoutError) Timeout() bool { return true }
func (timeoutError) Temporary() bool { return true }

var _ net.Error = timeoutError{}

func TestMapProviderError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		message  string
		sentinel error
	}{
		{"email not found", providerError("EMAIL_NOT_FOUND"), MsgInvalidCredentials, dto.ErrNotAuthorized},
		{"invalid password", providerError("INVALID_PASSWORD"), MsgInvalidCredentials, dto.ErrNotAuthorized},
		{"invalid login", providerError("INVALID_LOGIN_CREDENTIALS"), MsgInvalidCredentials, dto.ErrNotAuthorized},
		{"invalid email", providerError("INVALID_EMAIL"), MsgInvalidEmail, dto.ErrInvalidArgument},
		{"disabled", providerError("USER_DISABLED"), MsgUserDisabled, dto.ErrNotAuthorized},
		{"throttled", providerError("TOO_MANY_ATTEMPTS_TRY_LATER : Access disabled"), MsgTooManyAttempts, dto.ErrTooManyRequests},
		{"email exists", providerError("EMAIL_EXISTS"), MsgEmailInUse, dto.ErrConflict},
		{"weak password", providerError("WEAK_PASSWORD : Password should be at least 6 characters"), MsgWeakPassword, dto.ErrInvalidArgument},
		{"network", timeoutError{}, MsgNetworkFailure, dto.ErrUnavailable},
		{"unknown", providerError("OPERATION_NOT_ALLOWED"), MsgSignInFailed, dto.ErrInternalFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapProviderError(tt.err, MsgSignInFailed)

			var authErr *dto.AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, tt.message, authErr.Message)
			assert.True(t, errors.Is(err, tt.sentinel))
		})
	}
}

func TestSessionCacheExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := newSessionCache(time.Minute, func() time.Time { return now })

	cache.Put(model.User{ID: "u1", DisplayName: "Hana"})
	user, ok := cache.Get("u1")
	require.True(t, ok)
	assert.Equal(t, "Hana", user.DisplayName)

	now = now.Add(2 * time.Minute)
	_, ok = cache.Get("u1")
	assert.False(t, ok)

	now = now.Add(-2 * time.Minute)
	cache.Remove("u1")
	_, ok = cache.Get("u1")
	assert.False(t, ok)
}
