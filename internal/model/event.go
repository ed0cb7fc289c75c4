package model

import (
	"time"
)

type Event struct {
	ID        string    `json:"id" firestore:"-" gorm:"primaryKey"`
	Name      string    `json:"name" firestore:"name" gorm:"not null"`
	Category  string    `json:"category" firestore:"category" gorm:"index"`
	Date      time.Time `json:"date" firestore:"date"`
	Location  string    `json:"location" firestore:"location"`
	Weather   string    `json:"weather,omitempty" firestore:"weather"`
	ImageURL  string    `json:"imageUrl" firestore:"imageUrl"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

// FavoriteEvent marks an event a user saved. It lives at users/{uid}/favoriteEvents/{eventId}.
type FavoriteEvent struct {
	UserID  string    `json:"-" firestore:"-" gorm:"primaryKey"`
	EventID string    `json:"eventId" firestore:"-" gorm:"primaryKey"`
	AddedAt time.Time `json:"addedAt" firestore:"addedAt"`
}
