package service

import (
	"testing"
	"time"

	"github.com/krakosik/runway/internal/dto"
	"github.com/krakosik/runway/internal/repository"
)

type testEnv struct {
	repositories repository.Repositories
	clients      *fakeClients
	services     Services
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	repositories := repository.NewMemoryRepositories()
	clients := newFakeClients()
	config := dto.Config{StoreDriver: dto.StoreDriverMemory, SessionTTL: 120 * time.Hour}
	svc := NewServices(repositories, config, clients)
	t.Cleanup(func() { _ = svc.Close() })
	return testEnv{repositories: repositories, clients: clients, services: svc}
}
