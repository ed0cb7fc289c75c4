package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/krakosik/runway/internal/dto"
	"github.com/krakosik/runway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfile(t *testing.T, env testEnv, uid string) model.User {
	t.Helper()
	user, err := env.services.Profile().EnsureProfile(context.Background(), model.User{ID: uid, Email: uid + "@example.com", DisplayName: "Test " + uid})
	require.NoError(t, err)
	return user
}

func TestEnsureProfileIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	first := newProfile(t, env, "u1")

	second, err := env.services.Profile().EnsureProfile(context.Background(), model.User{ID: "u1", DisplayName: "Other"})
	require.NoError(t, err)
	assert.Equal(t, first.DisplayName, second.DisplayName)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	newProfile(t, env, "u1")

	name := "  Hana  "
	preferences := model.Preferences{Styles: []string{"Minimalist"}}
	user, err := env.services.Profile().UpdateProfile(ctx, "u1", model.ProfileUpdate{DisplayName: &name, Preferences: &preferences})
	require.NoError(t, err)
	assert.Equal(t, "Hana", user.DisplayName)
	assert.Equal(t, []string{"Minimalist"}, user.Preferences.Styles)
	assert.Equal(t, "u1@example.com", user.Email)

	_, err = env.services.Profile().UpdateProfile(ctx, "u1", model.ProfileUpdate{})
	assert.True(t, errors.Is(err, dto.ErrInvalidArgument))

	blank := " "
	_, err = env.services.Profile().UpdateProfile(ctx, "u1", model.ProfileUpdate{DisplayName: &blank})
	assert.True(t, errors.Is(err, dto.ErrInvalidArgument))

	_, err = env.services.Profile().UpdateProfile(ctx, "ghost", model.ProfileUpdate{DisplayName: &name})
	assert.True(t, errors.Is(err, dto.ErrNotFound))
}

func TestFavorites(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	newProfile(t, env, "u1")

	require.NoError(t, env.services.Profile().AddFavorite(ctx, "u1", "event2"))
	require.NoError(t, env.services.Profile().AddFavorite(ctx, "u1", "event5"))
	require.NoError(t, env.services.Profile().AddFavorite(ctx, "u1", "event2"))

	err := env.services.Profile().AddFavorite(ctx, "u1", "no-such-event")
	assert.True(t, errors.Is(err, dto.ErrNotFound))

	events, err := env.services.Profile().ListFavoriteEvents(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "event2", events[0].ID)
	assert.Equal(t, "event5", events[1].ID)

	user, err := env.services.Profile().GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"event2", "event5"}, user.Favorites)

	require.NoError(t, env.services.Profile().RemoveFavorite(ctx, "u1", "event2"))
	events, err = env.services.Profile().ListFavoriteEvents(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "event5", events[0].ID)
}

func TestListFavoriteEventsSkipsMissing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	newProfile(t, env, "u1")

	require.NoError(t, env.repositories.User().AddFavorite(ctx, "u1", "deleted-event"))
	require.NoError(t, env.services.Profile().AddFavorite(ctx, "u1", "event1"))

	events, err := env.services.Profile().ListFavoriteEvents(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "event1", events[0].ID)
}

func TestUploadImage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	newProfile(t, env, "u1")

	image, err := env.services.Media().UploadImage(ctx, "u1", AvatarFolder, "me.png", "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.Equal(t, "users/u1/avatar/me.png", image.Path)
	assert.Contains(t, image.URL, "users%2Fu1%2Favatar%2Fme.png")
	assert.Equal(t, "png", env.clients.objectStore.objects[image.Path])

	user, err := env.services.Profile().GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, image.URL, user.PhotoURL)

	other, err := env.services.Media().UploadImage(ctx, "u1", "outfits", "look.jpg", "image/jpeg", strings.NewReader("jpg"))
	require.NoError(t, err)
	user, err = env.services.Profile().GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.NotEqual(t, other.URL, user.PhotoURL)

	require.NoError(t, env.services.Media().DeleteImage(ctx, "u1", "outfits", "look.jpg"))
	assert.NotContains(t, env.clients.objectStore.objects, other.Path)
}

func TestUploadImageRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		folder      string
		fileName    string
		contentType string
	}{
		{"traversal", "..", "me.png", "image/png"},
		{"nested", "a/b", "me.png", "image/png"},
		{"empty name", AvatarFolder, "", "image/png"},
		{"not an image", AvatarFolder, "me.txt", "text/plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.services.Media().UploadImage(ctx, "u1", tt.folder, tt.fileName, tt.contentType, strings.NewReader("x"))
			assert.True(t, errors.Is(err, dto.ErrInvalidArgument))
		})
	}

	unconfigured := newMediaService(nil, env.services.Profile())
	_, err := unconfigured.UploadImage(ctx, "u1", AvatarFolder, "me.png", "image/png", strings.NewReader("x"))
	assert.True(t, errors.Is(err, dto.ErrUnavailable))
}

func TestRegisterPushToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	newProfile(t, env, "u1")

	saved, err := env.services.Profile().RegisterPushToken(ctx, "u1", dto.PushTokenRequest{Token: " ExponentPushToken[x] ", Platform: "ios"})
	require.NoError(t, err)
	assert.Equal(t, "ExponentPushToken[x]", saved.Token)
	assert.False(t, saved.CreatedAt.IsZero())

	stored, err := env.repositories.User().GetPushToken(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "ExponentPushToken[x]", stored.Token)
	assert.Equal(t, "ios", stored.Platform)

	_, err = env.services.Profile().RegisterPushToken(ctx, "u1", dto.PushTokenRequest{Token: "   "})
	assert.True(t, errors.Is(err, dto.ErrInvalidArgument))

	_, err = env.services.Profile().RegisterPushToken(ctx, "nobody", dto.PushTokenRequest{Token: "t"})
	assert.True(t, errors.Is(err, dto.ErrNotFound))
}
