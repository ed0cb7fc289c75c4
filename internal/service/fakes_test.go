package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/auth"
	"github.com/krakosik/runway/internal/client"
	"github.com/krakosik/runway/internal/dto"
	"github.com/krakosik/runway/internal/model"
	"github.com/krakosik/runway/internal/repository"
	"google.golang.org/api/googleapi"
)

var errTokenExpired = errors.New("token expired")

// fakeAuthClient models Firebase revocation with a logical clock: a credential is rejected once its
// IssuedAt is not after the user's last revocation.
type fakeAuthClient struct {
	mu        sync.Mutex
	clock     int64
	tokens    map[string]*auth.Token
	cookies   map[string]*auth.Token
	revokedAt map[string]int64
}

func newFakeAuthClient() *fakeAuthClient {
	return &fakeAuthClient{
		tokens:    make(map[string]*auth.Token),
		cookies:   make(map[string]*auth.Token),
		revokedAt: make(map[string]int64),
	}
}

func (f *fakeAuthClient) tick() int64 {
	f.clock++
	return f.clock
}

func (f *fakeAuthClient) issue(idToken, uid, email, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[idToken] = &auth.Token{
		UID:      uid,
		IssuedAt: f.tick(),
		Claims:   map[string]interface{}{"email": email, "name": name},
	}
}

func (f *fakeAuthClient) checkRevoked(token *auth.Token, kind string) (*auth.Token, error) {
	if revokedAt, ok := f.revokedAt[token.UID]; ok && token.IssuedAt <= revokedAt {
		return nil, fmt.Errorf("%s revoked", kind)
	}
	return token, nil
}

func (f *fakeAuthClient) VerifyIDTokenAndCheckRevoked(_ context.Context, idToken string) (*auth.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if idToken == "expired" {
		return nil, errTokenExpired
	}
	token, ok := f.tokens[idToken]
	if !ok {
		return nil, fmt.Errorf("unknown token %q", idToken)
	}
	return f.checkRevoked(token, "id token")
}

func (f *fakeAuthClient) VerifySessionCookieAndCheckRevoked(_ context.Context, cookie string) (*auth.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token, ok := f.cookies[cookie]
	if !ok {
		return nil, fmt.Errorf("unknown session cookie")
	}
	return f.checkRevoked(token, "session cookie")
}

func (f *fakeAuthClient) SessionCookie(_ context.Context, idToken string, expiresIn time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token, ok := f.tokens[idToken]
	if !ok {
		return "", fmt.Errorf("unknown token %q", idToken)
	}
	if _, err := f.checkRevoked(token, "id token"); err != nil {
		return "", err
	}
	session := *token
	session.IssuedAt = f.tick()
	cookie := fmt.Sprintf("cookie-%s-%d-%s", token.UID, session.IssuedAt, expiresIn)
	f.cookies[cookie] = &session
	return cookie, nil
}

func (f *fakeAuthClient) RevokeRefreshTokens(_ context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revokedAt[uid] = f.tick()
	return nil
}

// unavailableAuthClient fails verification the way the client does when auth is not configured.
type unavailableAuthClient struct {
	*fakeAuthClient
}

func (unavailableAuthClient) VerifyIDTokenAndCheckRevoked(context.Context, string) (*auth.Token, error) {
	return nil, fmt.Errorf("%w: firebase auth is not configured", dto.ErrUnavailable)
}

type account struct {
	uid         string
	password    string
	displayName string
}

// fakePasswordClient mimics the Identity Toolkit and issues ID tokens known to authClient.
type fakePasswordClient struct {
	mu         sync.Mutex
	authClient *fakeAuthClient
	accounts   map[string]account
	failWith   error
}

func newFakePasswordClient(authClient *fakeAuthClient) *fakePasswordClient {
	return &fakePasswordClient{authClient: authClient, accounts: make(map[string]account)}
}

func providerError(code string) error {
	return &googleapi.Error{Code: 400, Message: code}
}

func (f *fakePasswordClient) SignUp(_ context.Context, email, password, displayName string) (client.PasswordSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return client.PasswordSession{}, f.failWith
	}
	if _, exists := f.accounts[email]; exists {
		return client.PasswordSession{}, providerError("EMAIL_EXISTS")
	}
	uid := fmt.Sprintf("uid-%d", len(f.accounts)+1)
	f.accounts[email] = account{uid: uid, password: password, displayName: displayName}
	return f.session(email), nil
}

func (f *fakePasswordClient) SignIn(_ context.Context, email, password string) (client.PasswordSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return client.PasswordSession{}, f.failWith
	}
	acc, exists := f.accounts[email]
	if !exists {
		return client.PasswordSession{}, providerError("EMAIL_NOT_FOUND")
	}
	if acc.password != password {
		return client.PasswordSession{}, providerError("INVALID_PASSWORD")
	}
	return f.session(email), nil
}

func (f *fakePasswordClient) session(email string) client.PasswordSession {
	acc := f.accounts[email]
	idToken := "id-" + acc.uid
	f.authClient.issue(idToken, acc.uid, email, acc.displayName)
	return client.PasswordSession{
		UID:          acc.uid,
		Email:        email,
		DisplayName:  acc.displayName,
		IDToken:      idToken,
		RefreshToken: "refresh-" + acc.uid,
	}
}

type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string]string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string]string)}
}

func (f *fakeObjectStore) Upload(_ context.Context, path, _ string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[path] = string(data)
	return client.DownloadURL("runway-test", path, "token"), nil
}

func (f *fakeObjectStore) Delete(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[path]; !ok {
		return fmt.Errorf("object %s not found", path)
	}
	delete(f.objects, path)
	return nil
}

type fakeClients struct {
	authClient     *fakeAuthClient
	passwordClient *fakePasswordClient
	objectStore    *fakeObjectStore
}

func newFakeClients() *fakeClients {
	authClient := newFakeAuthClient()
	return &fakeClients{
		authClient:     authClient,
		passwordClient: newFakePasswordClient(authClient),
		objectStore:    newFakeObjectStore(),
	}
}

func (f *fakeClients) AuthClient() client.AuthClient {
	return f.authClient
}

func (f *fakeClients) PasswordClient() client.PasswordClient {
	return f.passwordClient
}

func (f *fakeClients) ObjectStore() client.ObjectStore {
	return f.objectStore
}

func (f *fakeClients) RabbitMQClient() client.RabbitClient {
	return nil
}

func (f *fakeClients) Firestore() *firestore.Client {
	return nil
}

func (f *fakeClients) Close() error {
	return nil
}

// failingOutfits wraps an outfit repository and fails every List call while failing is set.
type failingOutfits struct {
	repository.OutfitRepository
	failing bool
	calls   int
}

func (f *failingOutfits) List(ctx context.Context) ([]model.Outfit, error) {
	f.calls++
	if f.failing {
		return nil, errors.New("store unreachable")
	}
	return f.OutfitRepository.List(ctx)
}
