package model

import "time"

type Outfit struct {
	ID          string    `json:"id" firestore:"-" gorm:"primaryKey"`
	Name        string    `json:"name" firestore:"name" gorm:"not null"`
	Description string    `json:"description" firestore:"description"`
	Designer    string    `json:"designer" firestore:"designer" gorm:"index"`
	Brand       string    `json:"brand" firestore:"brand"`
	Category    string    `json:"category" firestore:"category" gorm:"index"`
	Occasions   []string  `json:"occasions" firestore:"occasions" gorm:"serializer:json"`
	ImageURL    string    `json:"imageUrl" firestore:"imageUrl"`
	VoteCount   int       `json:"voteCount" firestore:"voteCount" gorm:"not null;default:0"`
	OwnerID     string    `json:"ownerId" firestore:"userId"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt"`
}

// ReasonKind says which rule picked a suggestion.
type ReasonKind string

const (
	ReasonCategory ReasonKind = "category"
	ReasonDesigner ReasonKind = "designer"
	ReasonTrending ReasonKind = "trending"
)

type Suggestion struct {
	Outfit
	Reason string     `json:"reason"`
	Kind   ReasonKind `json:"kind"`
}

// TasteProfile lists the categories and designers a user upvotes most, strongest first.
type TasteProfile struct {
	Categories []string `json:"categories"`
	Designers  []string `json:"designers"`
}

type SuggestionResult struct {
	Suggestions []Suggestion `json:"suggestions"`
	Preferences TasteProfile `json:"preferences"`
}
