package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/krakosik/runway/internal/dto"
	"github.com/krakosik/runway/internal/fixture"
	"github.com/krakosik/runway/internal/model"
	"github.com/krakosik/runway/internal/repository"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
)

const (
	catalogEvents  = "events"
	catalogOutfits = "outfits"

	breakerTripThreshold = 3
	breakerOpenTimeout   = 30 * time.Second
)

// CatalogService serves events and outfits. List calls never fail: when the store errors, the
// breaker is open or the collection is empty, the bundled catalog is returned instead.
type CatalogService interface {
	ListEvents(ctx context.Context) []model.Event
	GetEvent(ctx context.Context, id string) (model.Event, error)
	ListOutfits(ctx context.Context) []model.Outfit
	GetOutfit(ctx context.Context, id string) (model.Outfit, error)
}

type catalogService struct {
	eventRepository  repository.EventRepository
	outfitRepository repository.OutfitRepository
	eventBreaker     *gobreaker.CircuitBreaker[[]model.Event]
	outfitBreaker    *gobreaker.CircuitBreaker[[]model.Outfit]
}

func newCatalogService(eventRepository repository.EventRepository, outfitRepository repository.OutfitRepository) CatalogService {
	return &catalogService{
		eventRepository:  eventRepository,
		outfitRepository: outfitRepository,
		eventBreaker:     gobreaker.NewCircuitBreaker[[]model.Event](breakerSettings(catalogEvents)),
		outfitBreaker:    gobreaker.NewCircuitBreaker[[]model.Outfit](breakerSettings(catalogOutfits)),
	}
}

func breakerSettings(catalog string) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        catalog + "-catalog",
		MaxRequests: 1,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTripThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logrus.Warnf("Circuit breaker %s changed from %s to %s", name, from, to)
		},
	}
}

func (c *catalogService) ListEvents(ctx context.Context) []model.Event {
	return listWithFallback(ctx, c.eventBreaker, catalogEvents, c.eventRepository.List, fixture.Events)
}

func (c *catalogService) ListOutfits(ctx context.Context) []model.Outfit {
	return listWithFallback(ctx, c.outfitBreaker, catalogOutfits, c.outfitRepository.List, fixture.Outfits)
}

func (c *catalogService) GetEvent(ctx context.Context, id string) (model.Event, error) {
	event, err := c.eventRepository.GetByID(ctx, id)
	if err == nil {
		return event, nil
	}
	return getWithFallback(err, catalogEvents, id, fixture.Events(), func(e model.Event) string { return e.ID })
}

func (c *catalogService) GetOutfit(ctx context.Context, id string) (model.Outfit, error) {
	outfit, err := c.outfitRepository.GetByID(ctx, id)
	if err == nil {
		return outfit, nil
	}
	return getWithFallback(err, catalogOutfits, id, fixture.Outfits(), func(o model.Outfit) string { return o.ID })
}

func listWithFallback[T any](
	ctx context.Context,
	breaker *gobreaker.CircuitBreaker[[]T],
	catalog string,
	list func(context.Context) ([]T, error),
	fallback func() []T,
) []T {
	items, err := breaker.Execute(func() ([]T, error) {
		return list(ctx)
	})

	var cause string
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		cause = "breaker_open"
	case err != nil:
		cause = "store_error"
		logrus.Warnf("Failed to list %s, serving bundled catalog: %v", catalog, err)
	case len(items) == 0:
		cause = "empty"
	default:
		return items
	}

	CatalogFallbacksTotal.WithLabelValues(catalog, cause).Inc()
	return fallback()
}

func getWithFallback[T any](err error, catalog, id string, bundled []T, idOf func(T) string) (T, error) {
	for _, item := range bundled {
		if idOf(item) == id {
			cause := "not_found"
			if !errors.Is(err, dto.ErrNotFound) {
				cause = "store_error"
				logrus.Warnf("Failed to get %s %s, serving bundled copy: %v", catalog, id, err)
			}
			CatalogFallbacksTotal.WithLabelValues(catalog, cause).Inc()
			return item, nil
		}
	}

	var zero T
	if errors.Is(err, dto.ErrNotFound) {
		return zero, err
	}
	return zero, fmt.Errorf("%w: %v", dto.ErrUnavailable, err)
}
