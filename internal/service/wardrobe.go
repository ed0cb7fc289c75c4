package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/krakosik/runway/internal/dto"
	"github.com/krakosik/runway/internal/model"
	"github.com/krakosik/runway/internal/repository"
	"github.com/sirupsen/logrus"
)

const (
	maxAccessories  = 2
	weatherOccasion = "casual"
)

type WardrobeService interface {
	AddItem(ctx context.Context, uid string, request dto.WardrobeItemRequest) (model.WardrobeItem, error)
	ListItems(ctx context.Context, uid, category string) ([]model.WardrobeItem, error)
	DeleteItem(ctx context.Context, uid, itemID string) error
	Recommend(ctx context.Context, uid, occasion, weather string) (model.StyleRecommendation, error)
	RecommendForEvent(ctx context.Context, uid, eventID string) (model.StyleRecommendation, error)
	RecommendForWeather(ctx context.Context, uid string, temperature float64, conditions string) (model.StyleRecommendation, error)
}

type wardrobeService struct {
	wardrobeRepository repository.WardrobeRepository
	catalogService     CatalogService
	// pick returns an index in [0, n).
	pick func(n int) int
}

func newWardrobeService(wardrobeRepository repository.WardrobeRepository, catalogService CatalogService) WardrobeService {
	return &wardrobeService{
		wardrobeRepository: wardrobeRepository,
		catalogService:     catalogService,
		pick:               rand.Intn,
	}
}

func (w *wardrobeService) AddItem(ctx context.Context, uid string, request dto.WardrobeItemRequest) (model.WardrobeItem, error) {
	item := request.WardrobeItem(uid)
	item.Name = strings.TrimSpace(item.Name)
	item.Category = strings.ToLower(strings.TrimSpace(item.Category))
	if item.Name == "" || item.Category == "" {
		return model.WardrobeItem{}, fmt.Errorf("%w: name and category are required", dto.ErrInvalidArgument)
	}

	created, err := w.wardrobeRepository.Add(ctx, item)
	if err != nil {
		return model.WardrobeItem{}, err
	}
	logrus.Infof("Added %s to the wardrobe of %s", created.ID, uid)
	return created, nil
}

func (w *wardrobeService) ListItems(ctx context.Context, uid, category string) ([]model.WardrobeItem, error) {
	return w.wardrobeRepository.List(ctx, uid, strings.ToLower(strings.TrimSpace(category)))
}

func (w *wardrobeService) DeleteItem(ctx context.Context, uid, itemID string) error {
	if itemID == "" {
		return fmt.Errorf("%w: item id is required", dto.ErrInvalidArgument)
	}
	return w.wardrobeRepository.Delete(ctx, uid, itemID)
}

// Recommend assembles an outfit from the items tagged for occasion. Items tagged with other
// weather are skipped when weather is given. One top, bottom and pair of shoes are drawn at random
// and the first two accessories are added.
func (w *wardrobeService) Recommend(ctx context.Context, uid, occasion, weather string) (model.StyleRecommendation, error) {
	if occasion == "" {
		return model.StyleRecommendation{}, fmt.Errorf("%w: occasion is required", dto.ErrInvalidArgument)
	}

	items, err := w.wardrobeRepository.List(ctx, uid, "")
	if err != nil {
		return model.StyleRecommendation{}, err
	}

	slots := make(map[string][]model.WardrobeItem)
	for _, item := range items {
		if item.SuitsOccasion(occasion) && item.SuitsWeather(weather) {
			slots[item.Category] = append(slots[item.Category], item)
		}
	}

	accessories := slots[model.WardrobeAccessories]
	if len(accessories) > maxAccessories {
		accessories = accessories[:maxAccessories]
	}
	if accessories == nil {
		accessories = []model.WardrobeItem{}
	}

	return model.StyleRecommendation{
		Top:         w.pickOne(slots[model.WardrobeTops]),
		Bottom:      w.pickOne(slots[model.WardrobeBottoms]),
		Shoes:       w.pickOne(slots[model.WardrobeShoes]),
		Accessories: accessories,
		Occasion:    occasion,
		Weather:     weather,
	}, nil
}

func (w *wardrobeService) pickOne(items []model.WardrobeItem) *model.WardrobeItem {
	if len(items) == 0 {
		return nil
	}
	item := items[w.pick(len(items))]
	return &item
}

// RecommendForEvent dresses the user for an event, using its category as the occasion.
func (w *wardrobeService) RecommendForEvent(ctx context.Context, uid, eventID string) (model.StyleRecommendation, error) {
	event, err := w.catalogService.GetEvent(ctx, eventID)
	if err != nil {
		return model.StyleRecommendation{}, err
	}
	return w.Recommend(ctx, uid, event.Category, event.Weather)
}

// RecommendForWeather dresses the user casually for the forecast.
func (w *wardrobeService) RecommendForWeather(ctx context.Context, uid string, temperature float64, conditions string) (model.StyleRecommendation, error) {
	return w.Recommend(ctx, uid, weatherOccasion, WeatherCategory(temperature, conditions))
}

// WeatherCategory buckets a temperature in °C into cold, cool, warm or hot and appends _rainy and
// _snowy when the conditions mention rain or snow.
func WeatherCategory(temperature float64, conditions string) string {
	var category string
	switch {
	case temperature < 10:
		category = "cold"
	case temperature < 20:
		category = "cool"
	case temperature < 30:
		category = "warm"
	default:
		category = "hot"
	}

	conditions = strings.ToLower(conditions)
	if strings.Contains(conditions, "rain") {
		category += "_rainy"
	}
	if strings.Contains(conditions, "snow") {
		category += "_snowy"
	}
	return category
}
