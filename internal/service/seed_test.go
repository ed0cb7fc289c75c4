package service

import (
	"context"
	"testing"

	"github.com/krakosik/runway/internal/fixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedAll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.services.Seed().SeedAll(ctx, fixture.MockUserID))

	user, err := env.repositories.User().GetByID(ctx, fixture.MockUserID)
	require.NoError(t, err)
	assert.Equal(t, "Nardos Kebede", user.DisplayName)

	events, err := env.repositories.Event().List(ctx)
	require.NoError(t, err)
	assert.Len(t, events, len(fixture.Events()))

	outfits, err := env.repositories.Outfit().List(ctx)
	require.NoError(t, err)
	require.Len(t, outfits, len(fixture.Outfits()))
	for _, outfit := range outfits {
		assert.Equal(t, fixture.MockUserID, outfit.OwnerID)
	}
}

func TestSeedSkipsExistingData(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.services.Seed().SeedAll(ctx, "owner"))

	created, err := env.services.Seed().SeedMockUser(ctx)
	require.NoError(t, err)
	assert.False(t, created)

	count, err := env.services.Seed().SeedEvents(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = env.services.Seed().SeedOutfits(ctx, "someone-else")
	require.NoError(t, err)
	assert.Zero(t, count)

	outfit, err := env.repositories.Outfit().GetByID(ctx, "outfit1")
	require.NoError(t, err)
	assert.Equal(t, "owner", outfit.OwnerID)
}
