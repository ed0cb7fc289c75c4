package dto

import "github.com/krakosik/runway/internal/model"

type SignUpRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	DisplayName     string `json:"displayName" validate:"required,max=80"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
}

type UpdateProfileRequest struct {
	DisplayName *string            `json:"displayName" validate:"omitempty,min=1,max=80"`
	PhotoURL    *string            `json:"photoURL" validate:"omitempty,url"`
	Preferences *model.Preferences `json:"preferences"`
}

func (r UpdateProfileRequest) ProfileUpdate() model.ProfileUpdate {
	return model.ProfileUpdate{
		DisplayName: r.DisplayName,
		PhotoURL:    r.PhotoURL,
		Preferences: r.Preferences,
	}
}

type VoteRequest struct {
	Upvote *bool `json:"upvote" validate:"required"`
}

type WardrobeItemRequest struct {
	Name               string   `json:"name" validate:"required,max=120"`
	Category           string   `json:"category" validate:"required,max=40"`
	Color              string   `json:"color" validate:"max=40"`
	Brand              string   `json:"brand" validate:"max=80"`
	Occasions          []string `json:"occasions" validate:"max=20,dive,required,max=40"`
	WeatherSuitability []string `json:"weatherSuitability" validate:"max=20,dive,required,max=40"`
	ImageURL           string   `json:"imageUrl" validate:"omitempty,url"`
}

func (r WardrobeItemRequest) WardrobeItem(uid string) model.WardrobeItem {
	return model.WardrobeItem{
		UserID:             uid,
		Name:               r.Name,
		Category:           r.Category,
		Color:              r.Color,
		Brand:              r.Brand,
		Occasions:          r.Occasions,
		WeatherSuitability: r.WeatherSuitability,
		ImageURL:           r.ImageURL,
	}
}

type StyleRequest struct {
	Occasion string `query:"occasion" validate:"required,max=40"`
	Weather  string `query:"weather" validate:"max=40"`
}

// WeatherRequest describes the forecast. Conditions is free text such as "light rain".
type WeatherRequest struct {
	Temperature *float64 `query:"temperature" validate:"required"`
	Conditions  string   `query:"conditions" validate:"max=80"`
}

type PushTokenRequest struct {
	Token    string `json:"token" validate:"required,max=256"`
	Platform string `json:"platform" validate:"omitempty,oneof=ios android web"`
}

type ImageResponse struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type InfoResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Store   string `json:"store"`
}
