package service

import (
	"context"
	"errors"

	"github.com/krakosik/runway/internal/dto"
	"github.com/krakosik/runway/internal/fixture"
	"github.com/krakosik/runway/internal/repository"
	"github.com/sirupsen/logrus"
)

// SeedService loads the bundled catalog and demo user into the store. Every seeder leaves
// existing data alone.
type SeedService interface {
	SeedAll(ctx context.Context, ownerID string) error
	SeedMockUser(ctx context.Context) (bool, error)
	SeedEvents(ctx context.Context) (int, error)
	SeedOutfits(ctx context.Context, ownerID string) (int, error)
}

type seedService struct {
	userRepository   repository.UserRepository
	eventRepository  repository.EventRepository
	outfitRepository repository.OutfitRepository
}

func newSeedService(repositories repository.Repositories) SeedService {
	return &seedService{
		userRepository:   repositories.User(),
		eventRepository:  repositories.Event(),
		outfitRepository: repositories.Outfit(),
	}
}

func (s *seedService) SeedAll(ctx context.Context, ownerID string) error {
	if _, err := s.SeedMockUser(ctx); err != nil {
		return err
	}
	if _, err := s.SeedEvents(ctx); err != nil {
		return err
	}
	if _, err := s.SeedOutfits(ctx, ownerID); err != nil {
		return err
	}
	return nil
}

func (s *seedService) SeedMockUser(ctx context.Context) (bool, error) {
	_, err := s.userRepository.GetByID(ctx, fixture.MockUserID)
	if err == nil {
		logrus.Info("Mock user already exists, skipping")
		return false, nil
	}
	if !errors.Is(err, dto.ErrNotFound) {
		return false, err
	}

	user, err := s.userRepository.Create(ctx, fixture.MockUser())
	if err != nil {
		return false, err
	}
	logrus.Infof("Seeded mock user %s", user.Identifier())
	return true, nil
}

func (s *seedService) SeedEvents(ctx context.Context) (int, error) {
	empty, err := s.eventRepository.IsEmpty(ctx)
	if err != nil {
		return 0, err
	}
	if !empty {
		logrus.Info("Events already exist, skipping")
		return 0, nil
	}

	seeded := 0
	for _, event := range fixture.Events() {
		if _, err := s.eventRepository.Save(ctx, event); err != nil {
			return seeded, err
		}
		seeded++
	}
	logrus.Infof("Seeded %d events", seeded)
	return seeded, nil
}

func (s *seedService) SeedOutfits(ctx context.Context, ownerID string) (int, error) {
	empty, err := s.outfitRepository.IsEmpty(ctx)
	if err != nil {
		return 0, err
	}
	if !empty {
		logrus.Info("Outfits already exist, skipping")
		return 0, nil
	}

	seeded := 0
	for _, outfit := range fixture.Outfits() {
		outfit.OwnerID = ownerID
		if _, err := s.outfitRepository.Save(ctx, outfit); err != nil {
			return seeded, err
		}
		seeded++
	}
	logrus.Infof("Seeded %d outfits", seeded)
	return seeded, nil
}
