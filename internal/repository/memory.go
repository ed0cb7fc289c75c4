package repository

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/krakosik/runway/internal/dto"
	"github.com/krakosik/runway/internal/model"
)

// memoryStore keeps every collection in process. It backs local development and tests.
type memoryStore struct {
	mu        sync.RWMutex
	users     map[string]model.User
	favorites map[string][]model.FavoriteEvent
	events    map[string]model.Event
	outfits   map[string]model.Outfit
	wardrobe  map[string][]model.WardrobeItem
	tokens    map[string]model.PushToken
	now       func() time.Time
}

func NewMemoryRepositories() Repositories {
	return newMemoryRepositories(utcNow)
}

func newMemoryRepositories(now func() time.Time) Repositories {
	store := &memoryStore{
		users:     make(map[string]model.User),
		favorites: make(map[string][]model.FavoriteEvent),
		events:    make(map[string]model.Event),
		outfits:   make(map[string]model.Outfit),
		wardrobe:  make(map[string][]model.WardrobeItem),
		tokens:    make(map[string]model.PushToken),
		now:       now,
	}
	return &repositories{
		userRepository:     &memoryUser{store},
		eventRepository:    &memoryEvent{store},
		outfitRepository:   &memoryOutfit{store},
		voteRepository:     &memoryVote{store},
		wardrobeRepository: &memoryWardrobe{store},
	}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", dto.ErrNotFound, kind, id)
}

func copyUser(u model.User) model.User {
	u.Favorites = append([]string{}, u.Favorites...)
	u.Votes = append(model.Votes{}, u.Votes...)
	return u
}

func copyWardrobeItem(w model.WardrobeItem) model.WardrobeItem {
	w.Occasions = slices.Clone(w.Occasions)
	w.WeatherSuitability = slices.Clone(w.WeatherSuitability)
	return w
}

func copyOutfit(o model.Outfit) model.Outfit {
	o.Occasions = slices.Clone(o.Occasions)
	return o
}

type memoryUser struct {
	*memoryStore
}

func (m *memoryUser) GetByID(_ context.Context, id string) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return model.User{}, notFound("user", id)
	}
	return copyUser(user), nil
}

func (m *memoryUser) Create(_ context.Context, user model.User) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[user.ID]; exists {
		return model.User{}, fmt.Errorf("%w: user %s already exists", dto.ErrConflict, user.ID)
	}

	now := m.now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	user.Favorites = []string{}
	user.Votes = model.Votes{}

	m.users[user.ID] = user
	return copyUser(user), nil
}

func (m *memoryUser) Update(_ context.Context, id string, update model.ProfileUpdate) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return model.User{}, notFound("user", id)
	}
	update.ApplyTo(&user)
	user.UpdatedAt = m.now()
	m.users[id] = user
	return copyUser(user), nil
}

func (m *memoryUser) AddFavorite(_ context.Context, userID, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return notFound("user", userID)
	}
	if user.HasFavorite(eventID) {
		return nil
	}

	user.Favorites = append(slices.Clone(user.Favorites), eventID)
	m.users[userID] = user
	m.favorites[userID] = append(m.favorites[userID], model.FavoriteEvent{
		UserID:  userID,
		EventID: eventID,
		AddedAt: m.now(),
	})
	return nil
}

func (m *memoryUser) RemoveFavorite(_ context.Context, userID, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return notFound("user", userID)
	}

	user.Favorites = slices.DeleteFunc(slices.Clone(user.Favorites), func(id string) bool { return id == eventID })
	m.users[userID] = user
	m.favorites[userID] = slices.DeleteFunc(slices.Clone(m.favorites[userID]), func(f model.FavoriteEvent) bool {
		return f.EventID == eventID
	})
	return nil
}

func (m *memoryUser) ListFavorites(_ context.Context, userID string) ([]model.FavoriteEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.favorites[userID]), nil
}

func (m *memoryUser) SavePushToken(_ context.Context, token model.PushToken) (model.PushToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[token.UserID]; !ok {
		return model.PushToken{}, notFound("user", token.UserID)
	}
	token.CreatedAt = m.now()
	m.tokens[token.UserID] = token
	return token, nil
}

func (m *memoryUser) GetPushToken(_ context.Context, userID string) (model.PushToken, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	token, ok := m.tokens[userID]
	if !ok {
		return model.PushToken{}, notFound("push token for user", userID)
	}
	return token, nil
}

type memoryEvent struct {
	*memoryStore
}

func (m *memoryEvent) List(_ context.Context) ([]model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]model.Event, 0, len(m.events))
	for _, e := range m.events {
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events, nil
}

func (m *memoryEvent) GetByID(_ context.Context, id string) (model.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	event, ok := m.events[id]
	if !ok {
		return model.Event{}, notFound("event", id)
	}
	return event, nil
}

func (m *memoryEvent) Save(_ context.Context, event model.Event) (model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if event.ID == "" {
		event.ID = newDocumentID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = m.now()
	}
	m.events[event.ID] = event
	return event, nil
}

func (m *memoryEvent) IsEmpty(_ context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.events) == 0, nil
}

type memoryOutfit struct {
	*memoryStore
}

func (m *memoryOutfit) List(_ context.Context) ([]model.Outfit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	outfits := make([]model.Outfit, 0, len(m.outfits))
	for _, o := range m.outfits {
		outfits = append(outfits, copyOutfit(o))
	}
	sort.Slice(outfits, func(i, j int) bool { return outfits[i].ID < outfits[j].ID })
	return outfits, nil
}

func (m *memoryOutfit) GetByID(_ context.Context, id string) (model.Outfit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	outfit, ok := m.outfits[id]
	if !ok {
		return model.Outfit{}, notFound("outfit", id)
	}
	return copyOutfit(outfit), nil
}

func (m *memoryOutfit) Save(_ context.Context, outfit model.Outfit) (model.Outfit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if outfit.ID == "" {
		outfit.ID = newDocumentID()
	}
	if outfit.CreatedAt.IsZero() {
		outfit.CreatedAt = m.now()
	}
	m.outfits[outfit.ID] = copyOutfit(outfit)
	return outfit, nil
}

func (m *memoryOutfit) IsEmpty(_ context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.outfits) == 0, nil
}

type memoryVote struct {
	*memoryStore
}

func (m *memoryVote) Cast(_ context.Context, userID, outfitID string, upvote bool) (model.VoteTally, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	outfit, ok := m.outfits[outfitID]
	if !ok {
		return model.VoteTally{}, notFound("outfit", outfitID)
	}
	user, ok := m.users[userID]
	if !ok {
		return model.VoteTally{}, notFound("user", userID)
	}

	at := m.now()
	next, delta, action := user.Votes.Apply(userID, outfitID, upvote, at)

	user.Votes = next
	outfit.VoteCount += delta
	m.users[userID] = user
	m.outfits[outfitID] = outfit

	return newTally(outfitID, next, delta, action, outfit.VoteCount, at), nil
}

type memoryWardrobe struct {
	*memoryStore
}

func (m *memoryWardrobe) List(_ context.Context, userID, category string) ([]model.WardrobeItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := []model.WardrobeItem{}
	for _, item := range m.wardrobe[userID] {
		if category != "" && item.Category != category {
			continue
		}
		items = append(items, copyWardrobeItem(item))
	}
	sortWardrobe(items)
	return items, nil
}

func (m *memoryWardrobe) Add(_ context.Context, item model.WardrobeItem) (model.WardrobeItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[item.UserID]; !ok {
		return model.WardrobeItem{}, notFound("user", item.UserID)
	}
	if item.ID == "" {
		item.ID = newDocumentID()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = m.now()
	}
	m.wardrobe[item.UserID] = append(m.wardrobe[item.UserID], copyWardrobeItem(item))
	return item, nil
}

func (m *memoryWardrobe) Delete(_ context.Context, userID, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.wardrobe[userID] = slices.DeleteFunc(slices.Clone(m.wardrobe[userID]), func(item model.WardrobeItem) bool {
		return item.ID == itemID
	})
	return nil
}
