package client

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDownloadURL(t *testing.T) {
	got := DownloadURL("runway.appspot.com", "users/u1/avatar/me.jpg", "tok-1")
	require.Equal(t,
		"https://firebasestorage.googleapis.com/v0/b/runway.appspot.com/o/users%2Fu1%2Favatar%2Fme.jpg?alt=media&token=tok-1",
		got,
	)
}
