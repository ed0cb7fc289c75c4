package model

import (
	"slices"
	"time"
)

type Preferences struct {
	Styles []string `json:"styles" firestore:"styles"`
	Brands []string `json:"brands" firestore:"brands"`
	Sizes  []string `json:"sizes" firestore:"sizes"`
	Colors []string `json:"colors" firestore:"colors"`
}

type User struct {
	ID          string      `json:"id" firestore:"-" gorm:"primaryKey"`
	DisplayName string      `json:"displayName" firestore:"displayName"`
	Email       string      `json:"email" firestore:"email" gorm:"not null"`
	PhotoURL    string      `json:"photoURL" firestore:"photoURL"`
	Preferences Preferences `json:"preferences" firestore:"preferences" gorm:"serializer:json"`
	Favorites   []string    `json:"favorites" firestore:"favorites" gorm:"-"`
	Votes       Votes       `json:"votes" firestore:"votes" gorm:"-"`
	CreatedAt   time.Time   `json:"createdAt" firestore:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt" firestore:"updatedAt"`
}

// Identifier is the name used for the user in logs.
func (u User) Identifier() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.Email != "" {
		return u.Email
	}
	return u.ID
}

func (u User) HasFavorite(eventID string) bool {
	return slices.Contains(u.Favorites, eventID)
}

// ProfileUpdate holds the fields a user may change on their own profile. Nil fields are left as is.
type ProfileUpdate struct {
	DisplayName *string
	PhotoURL    *string
	Preferences *Preferences
}

func (p ProfileUpdate) Empty() bool {
	return p.DisplayName == nil && p.PhotoURL == nil && p.Preferences == nil
}

func (p ProfileUpdate) ApplyTo(user *User) {
	if p.DisplayName != nil {
		user.DisplayName = *p.DisplayName
	}
	if p.PhotoURL != nil {
		user.PhotoURL = *p.PhotoURL
	}
	if p.Preferences != nil {
		user.Preferences = *p.Preferences
	}
}
