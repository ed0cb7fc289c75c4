package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/krakosik/runway/internal/dto"
	"github.com/krakosik/runway/internal/model"
	"github.com/krakosik/runway/internal/repository"
	"github.com/sirupsen/logrus"
)

type ProfileService interface {
	GetProfile(ctx context.Context, uid string) (model.User, error)
	CreateProfile(ctx context.Context, user model.User) (model.User, error)
	EnsureProfile(ctx context.Context, identity model.User) (model.User, error)
	UpdateProfile(ctx context.Context, uid string, update model.ProfileUpdate) (model.User, error)
	AddFavorite(ctx context.Context, uid, eventID string) error
	RemoveFavorite(ctx context.Context, uid, eventID string) error
	ListFavoriteEvents(ctx context.Context, uid string) ([]model.Event, error)
	RegisterPushToken(ctx context.Context, uid string, request dto.PushTokenRequest) (model.PushToken, error)
	HandleAuthStateChange(ctx context.Context, change AuthStateChange)
}

type profileService struct {
	userRepository repository.UserRepository
	catalogService CatalogService
}

func newProfileService(userRepository repository.UserRepository, catalogService CatalogService) ProfileService {
	return &profileService{
		userRepository: userRepository,
		catalogService: catalogService,
	}
}

func (p *profileService) GetProfile(ctx context.Context, uid string) (model.User, error) {
	return p.userRepository.GetByID(ctx, uid)
}

func (p *profileService) CreateProfile(ctx context.Context, user model.User) (model.User, error) {
	if user.ID == "" {
		return model.User{}, fmt.Errorf("%w: profile id is required", dto.ErrInvalidArgument)
	}
	user.Email = normalizeEmail(user.Email)
	user.DisplayName = strings.TrimSpace(user.DisplayName)

	created, err := p.userRepository.Create(ctx, user)
	if err != nil {
		return model.User{}, err
	}
	logrus.Infof("Created profile for %s", created.Identifier())
	return created, nil
}

// EnsureProfile returns the stored profile for identity.ID, creating it from identity when there is
// none yet.
func (p *profileService) EnsureProfile(ctx context.Context, identity model.User) (model.User, error) {
	user, err := p.userRepository.GetByID(ctx, identity.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, dto.ErrNotFound) {
		return model.User{}, err
	}

	user, err = p.CreateProfile(ctx, model.User{
		ID:          identity.ID,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		PhotoURL:    identity.PhotoURL,
	})
	if errors.Is(err, dto.ErrConflict) {
		// created by a concurrent request
		return p.userRepository.GetByID(ctx, identity.ID)
	}
	return user, err
}

func (p *profileService) UpdateProfile(ctx context.Context, uid string, update model.ProfileUpdate) (model.User, error) {
	if update.Empty() {
		return model.User{}, fmt.Errorf("%w: nothing to update", dto.ErrInvalidArgument)
	}
	if update.DisplayName != nil {
		name := strings.TrimSpace(*update.DisplayName)
		if name == "" {
			return model.User{}, fmt.Errorf("%w: display name must not be blank", dto.ErrInvalidArgument)
		}
		update.DisplayName = &name
	}
	return p.userRepository.Update(ctx, uid, update)
}

func (p *profileService) AddFavorite(ctx context.Context, uid, eventID string) error {
	if _, err := p.catalogService.GetEvent(ctx, eventID); err != nil {
		return err
	}
	if err := p.userRepository.AddFavorite(ctx, uid, eventID); err != nil {
		return err
	}
	logrus.Debugf("User %s added event %s to favorites", uid, eventID)
	return nil
}

func (p *profileService) RemoveFavorite(ctx context.Context, uid, eventID string) error {
	return p.userRepository.RemoveFavorite(ctx, uid, eventID)
}

// ListFavoriteEvents resolves the user's favorites to events. Favorites whose event no longer
// exists are skipped.
func (p *profileService) ListFavoriteEvents(ctx context.Context, uid string) ([]model.Event, error) {
	favorites, err := p.userRepository.ListFavorites(ctx, uid)
	if err != nil {
		return nil, err
	}

	events := make([]model.Event, 0, len(favorites))
	for _, favorite := range favorites {
		event, err := p.catalogService.GetEvent(ctx, favorite.EventID)
		if errors.Is(err, dto.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

// RegisterPushToken stores the device token notifications are sent to. A new token replaces the
// previous one.
func (p *profileService) RegisterPushToken(ctx context.Context, uid string, request dto.PushTokenRequest) (model.PushToken, error) {
	token := strings.TrimSpace(request.Token)
	if token == "" {
		return model.PushToken{}, fmt.Errorf("%w: push token is required", dto.ErrInvalidArgument)
	}

	saved, err := p.userRepository.SavePushToken(ctx, model.PushToken{UserID: uid, Token: token, Platform: request.Platform})
	if err != nil {
		return model.PushToken{}, err
	}
	logrus.Debugf("Registered %s push token for %s", saved.Platform, uid)
	return saved, nil
}

func (p *profileService) HandleAuthStateChange(ctx context.Context, change AuthStateChange) {
	if change.State != AuthStateSignedIn {
		return
	}
	if _, err := p.EnsureProfile(ctx, change.User); err != nil {
		logrus.Errorf("Failed to ensure profile for %s: %v", change.User.Identifier(), err)
	}
}
