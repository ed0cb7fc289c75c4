package service

import (
	"sync"
	"time"

	"github.com/krakosik/runway/internal/model"
)

const sessionTTL = time.Minute

type cachedSession struct {
	user     model.User
	cachedAt time.Time
}

// SessionCache remembers the profile behind recently validated tokens so authenticated requests do
// not read the profile every time. The auth service is its only writer.
type SessionCache interface {
	Put(user model.User)
	Get(uid string) (model.User, bool)
	Remove(uid string)
}

type sessionCache struct {
	sessions     map[string]cachedSession
	sessionMutex sync.RWMutex
	ttl          time.Duration
	now          func() time.Time
}

func newSessionCache(ttl time.Duration, now func() time.Time) SessionCache {
	return &sessionCache{
		sessions: make(map[string]cachedSession),
		ttl:      ttl,
		now:      now,
	}
}

func (s *sessionCache) Put(user model.User) {
	s.sessionMutex.Lock()
	defer s.sessionMutex.Unlock()

	s.sessions[user.ID] = cachedSession{
		user:     user,
		cachedAt: s.now(),
	}
}

func (s *sessionCache) Get(uid string) (model.User, bool) {
	s.sessionMutex.RLock()
	defer s.sessionMutex.RUnlock()

	session, exists := s.sessions[uid]
	if !exists || s.now().Sub(session.cachedAt) > s.ttl {
		return model.User{}, false
	}
	return session.user, true
}

func (s *sessionCache) Remove(uid string) {
	s.sessionMutex.Lock()
	defer s.sessionMutex.Unlock()

	delete(s.sessions, uid)
}
