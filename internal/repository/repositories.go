package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/krakosik/runway/internal/dto"
	"github.com/krakosik/runway/internal/model"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Repositories interface {
	User() UserRepository
	Event() EventRepository
	Outfit() OutfitRepository
	Vote() VoteRepository
	Wardrobe() WardrobeRepository
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (model.User, error)
	Create(ctx context.Context, user model.User) (model.User, error)
	Update(ctx context.Context, id string, update model.ProfileUpdate) (model.User, error)
	AddFavorite(ctx context.Context, userID, eventID string) error
	RemoveFavorite(ctx context.Context, userID, eventID string) error
	ListFavorites(ctx context.Context, userID string) ([]model.FavoriteEvent, error)
	SavePushToken(ctx context.Context, token model.PushToken) (model.PushToken, error)
	GetPushToken(ctx context.Context, userID string) (model.PushToken, error)
}

// EventRepository lists events in id order.
type EventRepository interface {
	List(ctx context.Context) ([]model.Event, error)
	GetByID(ctx context.Context, id string) (model.Event, error)
	Save(ctx context.Context, event model.Event) (model.Event, error)
	IsEmpty(ctx context.Context) (bool, error)
}

// OutfitRepository lists outfits in id order. That order is the catalog order.
type OutfitRepository interface {
	List(ctx context.Context) ([]model.Outfit, error)
	GetByID(ctx context.Context, id string) (model.Outfit, error)
	Save(ctx context.Context, outfit model.Outfit) (model.Outfit, error)
	IsEmpty(ctx context.Context) (bool, error)
}

// VoteRepository casts votes. Cast updates the user's vote and the outfit's count in one
// transaction, so either both change or neither does.
type VoteRepository interface {
	Cast(ctx context.Context, userID, outfitID string, upvote bool) (model.VoteTally, error)
}

// WardrobeRepository stores a user's wardrobe. List returns items oldest first and filters by
// category when one is given. Delete succeeds when the item is already gone.
type WardrobeRepository interface {
	List(ctx context.Context, userID, category string) ([]model.WardrobeItem, error)
	Add(ctx context.Context, item model.WardrobeItem) (model.WardrobeItem, error)
	Delete(ctx context.Context, userID, itemID string) error
}

type repositories struct {
	userRepository     UserRepository
	eventRepository    EventRepository
	outfitRepository   OutfitRepository
	voteRepository     VoteRepository
	wardrobeRepository WardrobeRepository
}

// NewRepositories returns repositories backed by a relational database through gorm.
func NewRepositories(db *gorm.DB) Repositories {
	err := db.AutoMigrate(&model.User{}, &model.Event{}, &model.Outfit{}, &model.Vote{}, &model.FavoriteEvent{},
		&model.WardrobeItem{}, &model.PushToken{})
	if err != nil {
		logrus.Panic(err)
	}
	now := utcNow
	return &repositories{
		userRepository:     newUserRepository(db, now),
		eventRepository:    newEventRepository(db, now),
		outfitRepository:   newOutfitRepository(db, now),
		voteRepository:     newVoteRepository(db, now),
		wardrobeRepository: newWardrobeRepository(db, now),
	}
}

func (r repositories) User() UserRepository {
	return r.userRepository
}

func (r repositories) Event() EventRepository {
	return r.eventRepository
}

func (r repositories) Outfit() OutfitRepository {
	return r.outfitRepository
}

func (r repositories) Vote() VoteRepository {
	return r.voteRepository
}

func (r repositories) Wardrobe() WardrobeRepository {
	return r.wardrobeRepository
}

func utcNow() time.Time {
	return time.Now().UTC()
}

func newTally(outfitID string, votes model.Votes, delta int, action model.VoteAction, voteCount int, at time.Time) model.VoteTally {
	tally := model.VoteTally{
		OutfitID:  outfitID,
		Action:    action,
		Delta:     delta,
		VoteCount: voteCount,
		At:        at,
	}
	if v, ok := votes.Find(outfitID); ok {
		upvote := v.IsUpvote
		tally.UserVote = &upvote
	}
	return tally
}

func newDocumentID() string {
	return uuid.NewString()
}

// NewFromConfig opens the store selected by STORE_DRIVER. The Firestore client is only used by the
// firestore driver and may be nil otherwise.
func NewFromConfig(cfg dto.Config, firestoreClient *firestore.Client) (Repositories, error) {
	switch cfg.StoreDriver {
	case dto.StoreDriverFirestore:
		if firestoreClient == nil {
			return nil, fmt.Errorf("%w: firestore client is not configured", dto.ErrInvalidArgument)
		}
		return NewFirestoreRepositories(firestoreClient), nil
	case dto.StoreDriverPostgres:
		db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", dto.ErrUnavailable, err)
		}
		return NewRepositories(db), nil
	case dto.StoreDriverMemory:
		return NewMemoryRepositories(), nil
	default:
		return nil, fmt.Errorf("%w: unknown store driver %q", dto.ErrInvalidArgument, cfg.StoreDriver)
	}
}

// sortWardrobe orders items oldest first. Ties keep the order the store returned them in.
func sortWardrobe(items []model.WardrobeItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}
