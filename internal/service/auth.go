package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/krakosik/runway/internal/client"
	"github.com/krakosik/runway/internal/dto"
	"github.com/krakosik/runway/internal/model"
	"github.com/sirupsen/logrus"
)

type AuthState string

const (
	AuthStateSignedIn  AuthState = "signed_in"
	AuthStateSignedOut AuthState = "signed_out"
)

// AuthStateChange is delivered to listeners when a user signs in or out. User only carries the
// identity fields known to the provider.
type AuthStateChange struct {
	State AuthState
	User  model.User
}

type AuthStateListener func(ctx context.Context, change AuthStateChange)

type AuthResult struct {
	Response      dto.AuthResponse
	SessionCookie string
}

type AuthService interface {
	SignUp(ctx context.Context, request dto.SignUpRequest) (AuthResult, error)
	SignIn(ctx context.Context, request dto.SignInRequest) (AuthResult, error)
	SignOut(ctx context.Context, user model.User) error
	ValidateToken(ctx context.Context, token string) (model.User, error)
	ValidateSessionCookie(ctx context.Context, cookie string) (model.User, error)
	OnAuthStateChanged(listener AuthStateListener) (unsubscribe func())
}

type registeredListener struct {
	id       int
	listener AuthStateListener
}

type authService struct {
	profileService      ProfileService
	authClient          client.AuthClient
	passwordClient      client.PasswordClient
	tokenExpireVerifier client.TokenExpireVerifier
	sessions            SessionCache
	cookieTTL           time.Duration

	listeners      []registeredListener
	nextListenerID int
	listenerMutex  sync.RWMutex
}

func newAuthService(
	profileService ProfileService,
	authClient client.AuthClient,
	passwordClient client.PasswordClient,
	verifier client.TokenExpireVerifier,
	cookieTTL time.Duration,
) AuthService {
	return &authService{
		profileService:      profileService,
		authClient:          authClient,
		passwordClient:      passwordClient,
		tokenExpireVerifier: verifier,
		sessions:            newSessionCache(sessionTTL, time.Now),
		cookieTTL:           cookieTTL,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *authService) SignUp(ctx context.Context, request dto.SignUpRequest) (AuthResult, error) {
	if a.passwordClient == nil {
		return AuthResult{}, fmt.Errorf("%w: email sign-up is not configured", dto.ErrUnavailable)
	}

	email := normalizeEmail(request.Email)
	session, err := a.passwordClient.SignUp(ctx, email, request.Password, strings.TrimSpace(request.DisplayName))
	if err != nil {
		AuthAttemptsTotal.WithLabelValues("sign_up", "failure").Inc()
		logrus.Warnf("Sign-up failed for %s: %v", email, err)
		return AuthResult{}, mapProviderError(err, MsgSignUpFailed)
	}

	return a.startSession(ctx, "sign_up", session)
}

func (a *authService) SignIn(ctx context.Context, request dto.SignInRequest) (AuthResult, error) {
	if a.passwordClient == nil {
		return AuthResult{}, fmt.Errorf("%w: email sign-in is not configured", dto.ErrUnavailable)
	}

	email := normalizeEmail(request.Email)
	session, err := a.passwordClient.SignIn(ctx, email, request.Password)
	if err != nil {
		AuthAttemptsTotal.WithLabelValues("sign_in", "failure").Inc()
		logrus.Warnf("Sign-in failed for %s: %v", email, err)
		return AuthResult{}, mapProviderError(err, MsgSignInFailed)
	}

	return a.startSession(ctx, "sign_in", session)
}

func (a *authService) startSession(ctx context.Context, operation string, session client.PasswordSession) (AuthResult, error) {
	cookie, err := a.authClient.SessionCookie(ctx, session.IDToken, a.cookieTTL)
	if err != nil {
		return AuthResult{}, fmt.Errorf("%w: %v", dto.ErrInternalFailure, err)
	}
	AuthAttemptsTotal.WithLabelValues(operation, "success").Inc()

	user := model.User{ID: session.UID, Email: session.Email, DisplayName: session.DisplayName}
	a.notify(ctx, AuthStateChange{State: AuthStateSignedIn, User: user})
	logrus.Infof("User %s signed in", user.Identifier())

	return AuthResult{
		Response: dto.AuthResponse{
			UID:          session.UID,
			Email:        session.Email,
			DisplayName:  session.DisplayName,
			IDToken:      session.IDToken,
			RefreshToken: session.RefreshToken,
		},
		SessionCookie: cookie,
	}, nil
}

func (a *authService) SignOut(ctx context.Context, user model.User) error {
	if err := a.authClient.RevokeRefreshTokens(ctx, user.ID); err != nil {
		return fmt.Errorf("%w: %v", dto.ErrInternalFailure, err)
	}
	a.sessions.Remove(user.ID)
	a.notify(ctx, AuthStateChange{State: AuthStateSignedOut, User: user})
	logrus.Infof("User %s signed out", user.Identifier())
	return nil
}

func (a *authService) ValidateToken(ctx context.Context, token string) (model.User, error) {
	response, err := a.authClient.VerifyIDTokenAndCheckRevoked(ctx, token)
	if err != nil {
		return model.User{}, a.rejected(err)
	}
	return a.resolveUser(ctx, response)
}

func (a *authService) ValidateSessionCookie(ctx context.Context, cookie string) (model.User, error) {
	response, err := a.authClient.VerifySessionCookieAndCheckRevoked(ctx, cookie)
	if err != nil {
		return model.User{}, a.rejected(err)
	}
	return a.resolveUser(ctx, response)
}

func (a *authService) rejected(err error) error {
	if errors.Is(err, dto.ErrUnavailable) {
		return err
	}
	logrus.Debugf("Rejected credentials: %v", err)
	if a.tokenExpireVerifier != nil && a.tokenExpireVerifier(err) {
		return fmt.Errorf("%w: token expired", dto.ErrNotAuthorized)
	}
	return fmt.Errorf("%w: invalid or revoked credentials", dto.ErrNotAuthorized)
}

func (a *authService) resolveUser(ctx context.Context, token *auth.Token) (model.User, error) {
	if user, ok := a.sessions.Get(token.UID); ok {
		return user, nil
	}

	if _, ok := token.Claims["email"]; !ok {
		return model.User{}, fmt.Errorf("%w: %v", dto.ErrNotAuthorized, "email claim not found")
	}
	email, ok := token.Claims["email"].(string)
	if !ok {
		return model.User{}, fmt.Errorf("%w: %v", dto.ErrNotAuthorized, "email claim is not a string")
	}
	name, _ := token.Claims["name"].(string)
	picture, _ := token.Claims["picture"].(string)

	user, err := a.profileService.EnsureProfile(ctx, model.User{
		ID:          token.UID,
		Email:       email,
		DisplayName: name,
		PhotoURL:    picture,
	})
	if err != nil {
		return model.User{}, err
	}

	a.sessions.Put(user)
	return user, nil
}

func (a *authService) OnAuthStateChanged(listener AuthStateListener) func() {
	a.listenerMutex.Lock()
	defer a.listenerMutex.Unlock()

	id := a.nextListenerID
	a.nextListenerID++
	a.listeners = append(a.listeners, registeredListener{id: id, listener: listener})

	return func() {
		a.listenerMutex.Lock()
		defer a.listenerMutex.Unlock()

		for i, l := range a.listeners {
			if l.id == id {
				a.listeners = append(a.listeners[:i:i], a.listeners[i+1:]...)
				return
			}
		}
	}
}

func (a *authService) notify(ctx context.Context, change AuthStateChange) {
	a.listenerMutex.RLock()
	listeners := make([]registeredListener, len(a.listeners))
	copy(listeners, a.listeners)
	a.listenerMutex.RUnlock()

	for _, l := range listeners {
		l.listener(ctx, change)
	}
}
