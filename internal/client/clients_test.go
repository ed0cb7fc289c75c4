package client

import (
	"context"
	"testing"
	"time"

	"github.com/krakosik/runway/internal/dto"
	"github.com/stretchr/testify/require"
)

func TestNewClientsWithoutFirebaseKey(t *testing.T) {
	for _, driver := range []string{dto.StoreDriverMemory, dto.StoreDriverPostgres} {
		t.Run(driver, func(t *testing.T) {
			require := require.New(t)
			var c Clients
			require.NotPanics(func() {
				c = NewClients(dto.Config{StoreDriver: driver, StorageBucket: "runway.appspot.com"})
			})

			require.Nil(c.Firestore())
			require.Nil(c.ObjectStore())
			require.Nil(c.PasswordClient())
			require.Nil(c.RabbitMQClient())
			require.NoError(c.Close())

			ctx := context.Background()
			_, err := c.AuthClient().VerifyIDTokenAndCheckRevoked(ctx, "token")
			require.ErrorIs(err, dto.ErrUnavailable)
			_, err = c.AuthClient().VerifySessionCookieAndCheckRevoked(ctx, "cookie")
			require.ErrorIs(err, dto.ErrUnavailable)
			_, err = c.AuthClient().SessionCookie(ctx, "token", time.Hour)
			require.ErrorIs(err, dto.ErrUnavailable)
			require.ErrorIs(c.AuthClient().RevokeRefreshTokens(ctx, "u1"), dto.ErrUnavailable)
		})
	}
}

func TestNewClientsFirestoreNeedsFirebaseKey(t *testing.T) {
	require.Panics(t, func() {
		NewClients(dto.Config{StoreDriver: dto.StoreDriverFirestore})
	})
}
