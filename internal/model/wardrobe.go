package model

import (
	"slices"
	"time"
)

// Wardrobe categories the style recommender picks from.
const (
	WardrobeTops        = "tops"
	WardrobeBottoms     = "bottoms"
	WardrobeShoes       = "shoes"
	WardrobeAccessories = "accessories"
)

// WardrobeItem is a piece of clothing a user owns. It lives at users/{uid}/wardrobe/{itemId}.
type WardrobeItem struct {
	ID                 string    `json:"id" firestore:"-" gorm:"primaryKey"`
	UserID             string    `json:"-" firestore:"-" gorm:"index;not null"`
	Name               string    `json:"name" firestore:"name" gorm:"not null"`
	Category           string    `json:"category" firestore:"category" gorm:"index"`
	Color              string    `json:"color" firestore:"color"`
	Brand              string    `json:"brand" firestore:"brand"`
	Occasions          []string  `json:"occasions" firestore:"occasions" gorm:"serializer:json"`
	WeatherSuitability []string  `json:"weatherSuitability" firestore:"weatherSuitability" gorm:"serializer:json"`
	ImageURL           string    `json:"imageUrl" firestore:"imageUrl"`
	CreatedAt          time.Time `json:"createdAt" firestore:"createdAt"`
}

// SuitsOccasion reports whether the item is tagged for the occasion.
func (w WardrobeItem) SuitsOccasion(occasion string) bool {
	return slices.Contains(w.Occasions, occasion)
}

// SuitsWeather reports whether the item can be worn in the given weather. Items without weather
// tags and an empty weather both match.
func (w WardrobeItem) SuitsWeather(weather string) bool {
	if weather == "" || len(w.WeatherSuitability) == 0 {
		return true
	}
	return slices.Contains(w.WeatherSuitability, weather)
}

// StyleRecommendation is one outfit assembled from the user's wardrobe. Slots stay nil when no
// item fits.
type StyleRecommendation struct {
	Top         *WardrobeItem  `json:"top"`
	Bottom      *WardrobeItem  `json:"bottom"`
	Shoes       *WardrobeItem  `json:"shoes"`
	Accessories []WardrobeItem `json:"accessories"`
	Occasion    string         `json:"occasion"`
	Weather     string         `json:"weather,omitempty"`
}

// PushToken is the device token used to notify a user. It lives at users/{uid}/tokens/push.
type PushToken struct {
	UserID    string    `json:"-" firestore:"-" gorm:"primaryKey"`
	Token     string    `json:"token" firestore:"token" gorm:"not null"`
	Platform  string    `json:"platform" firestore:"platform"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}
