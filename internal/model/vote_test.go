package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestVotesApply(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		votes     Votes
		upvote    bool
		wantDelta int
		action    VoteAction
		wantVote  *bool
	}{
		{name: "new upvote", upvote: true, wantDelta: 1, action: VoteAdded, wantVote: boolPtr(true)},
		{name: "new downvote", upvote: false, wantDelta: -1, action: VoteAdded, wantVote: boolPtr(false)},
		{name: "repeat upvote withdraws", votes: Votes{{OutfitID: "o1", IsUpvote: true}}, upvote: true, wantDelta: -1, action: VoteRemoved},
		{name: "repeat downvote withdraws", votes: Votes{{OutfitID: "o1", IsUpvote: false}}, upvote: false, wantDelta: 1, action: VoteRemoved},
		{name: "down to up", votes: Votes{{OutfitID: "o1", IsUpvote: false}}, upvote: true, wantDelta: 2, action: VoteChanged, wantVote: boolPtr(true)},
		{name: "up to down", votes: Votes{{OutfitID: "o1", IsUpvote: true}}, upvote: false, wantDelta: -2, action: VoteChanged, wantVote: boolPtr(false)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			next, delta, action := tt.votes.Apply("u1", "o1", tt.upvote, now)
			require.Equal(tt.wantDelta, delta)
			require.Equal(tt.action, action)

			v, ok := next.Find("o1")
			if tt.wantVote == nil {
				require.False(ok)
				return
			}
			require.True(ok)
			require.Equal(*tt.wantVote, v.IsUpvote)
			require.Equal(now, v.Timestamp)
		})
	}
}

func TestVotesApplyKeepsOtherOutfits(t *testing.T) {
	require := require.New(t)
	votes := Votes{
		{OutfitID: "o1", IsUpvote: true},
		{OutfitID: "o2", IsUpvote: false},
		{OutfitID: "o3", IsUpvote: true},
	}

	next, _, _ := votes.Apply("u1", "o1", false, time.Now())
	require.Len(next, 3)
	require.Equal("o2", next[0].OutfitID)
	require.Equal("o3", next[1].OutfitID)
	require.Equal("o1", next[2].OutfitID)

	// the original slice is untouched
	require.Equal("o1", votes[0].OutfitID)
	require.True(votes[0].IsUpvote)
}

func TestVotesApplyToggleRestoresCount(t *testing.T) {
	require := require.New(t)
	var votes Votes
	count := 7

	votes, delta, _ := votes.Apply("u1", "o1", true, time.Now())
	count += delta
	votes, delta, _ = votes.Apply("u1", "o1", true, time.Now())
	count += delta

	require.Equal(7, count)
	require.Empty(votes)
}

func TestVotesUpvoted(t *testing.T) {
	votes := Votes{{OutfitID: "a", IsUpvote: true}, {OutfitID: "b"}}
	require.Equal(t, map[string]bool{"a": true}, votes.Upvoted())
}

func boolPtr(b bool) *bool { return &b }
