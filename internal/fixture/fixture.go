// Package fixture holds the catalog bundled with the service. It seeds empty backends and
// stands in for the catalog when the backend cannot be read.
package fixture

import (
	"time"

	"github.com/krakosik/runway/internal/model"
)

const MockUserID = "user1"

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

// Events returns a fresh copy of the bundled events.
func Events() []model.Event {
	return []model.Event{
		{ID: "event1", Name: "GARANOO FASHION", Date: date("2025-11-24"), Location: "PARIS", Category: "Runway", ImageURL: "event1"},
		{ID: "event2", Name: "HIJAB FASHION", Date: date("2025-10-06"), Location: "New York", Category: "Cultural", ImageURL: "event2"},
		{ID: "event3", Name: "New York Fashion Week", Date: date("2023-08-19"), Location: "New York", Category: "Fashion Week", ImageURL: "event3"},
		{ID: "event4", Name: "SOUTHEASTERN AFRICA FASHION SHOW", Date: date("2021-05-28"), Location: "Nigeria", Category: "Cultural", ImageURL: "event4"},
		{ID: "event5", Name: "THE TUXEDO", Date: date("2024-04-28"), Location: "New York", Category: "Formal", ImageURL: "event5"},
	}
}

// Outfits returns a fresh copy of the bundled outfits.
func Outfits() []model.Outfit {
	return []model.Outfit{
		{
			ID: "outfit1", Name: "African Elegant Dress", Description: "A light and breezy outfit perfect for occasions.",
			Designer: "Nindi Folawiyo", Brand: "Afro design", Category: "Formal", Occasions: []string{"Cultural", "Formal"}, ImageURL: "outfit1",
		},
		{
			ID: "outfit2", Name: "Elegant Evening Dress", Description: "A stunning evening dress for formal occasions.",
			Designer: "John Smith", Brand: "Evening Elegance", Category: "Formal", Occasions: []string{"Formal", "Evening"}, ImageURL: "outfit2",
		},
		{
			ID: "outfit3", Name: "Business Casual", Description: "A smart outfit suitable for the office or meetings.",
			Designer: "Emily Johnson", Brand: "Office Chic", Category: "Business", Occasions: []string{"Business", "Casual"}, ImageURL: "outfit3",
		},
		{
			ID: "outfit4", Name: "Hijab", Description: "Embrace sophistication and style with this elegant hijab outfit.",
			Designer: "Fatima Ibrahim", Brand: "Zara", Category: "Cultural", Occasions: []string{"Cultural", "Casual"}, ImageURL: "outfit4",
		},
		{
			ID: "outfit5", Name: "Kids Collection", Description: "Comfortable for kids.",
			Designer: "Sarah Wilson", Brand: "Cozy Collection", Category: "Kids", Occasions: []string{"Casual"}, ImageURL: "outfit5",
		},
	}
}

func MockUser() model.User {
	return model.User{
		ID:          MockUserID,
		DisplayName: "Nardos Kebede",
		Email:       "nardos@example.com",
		Preferences: model.Preferences{
			Styles: []string{"Streetwear", "Minimalist", "Business Casual"},
			Brands: []string{"Zara", "Nike", "Gucci"},
			Sizes:  []string{"M", "L", "US 9"},
			Colors: []string{"Neutrals", "Blues", "Black"},
		},
	}
}
