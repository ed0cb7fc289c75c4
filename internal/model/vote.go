package model

import "time"

type Vote struct {
	UserID    string    `json:"-" firestore:"-" gorm:"primaryKey"`
	OutfitID  string    `json:"outfitId" firestore:"outfitId" gorm:"primaryKey"`
	IsUpvote  bool      `json:"isUpvote" firestore:"isUpvote" gorm:"not null"`
	Timestamp time.Time `json:"timestamp" firestore:"timestamp" gorm:"column:cast_at;not null"`
}

func (v Vote) Weight() int {
	if v.IsUpvote {
		return 1
	}
	return -1
}

type VoteAction string

const (
	VoteAdded   VoteAction = "added"
	VoteRemoved VoteAction = "removed"
	VoteChanged VoteAction = "changed"
)

// Votes is a user's ordered list of active votes, at most one per outfit.
type Votes []Vote

func (vs Votes) Find(outfitID string) (Vote, bool) {
	for _, v := range vs {
		if v.OutfitID == outfitID {
			return v, true
		}
	}
	return Vote{}, false
}

func (vs Votes) Upvoted() map[string]bool {
	ids := make(map[string]bool, len(vs))
	for _, v := range vs {
		if v.IsUpvote {
			ids[v.OutfitID] = true
		}
	}
	return ids
}

func (vs Votes) without(outfitID string) Votes {
	out := make(Votes, 0, len(vs))
	for _, v := range vs {
		if v.OutfitID != outfitID {
			out = append(out, v)
		}
	}
	return out
}

// Apply casts a vote on outfitID and returns the user's new vote list, the change to the
// outfit's vote count and what happened. Repeating the current vote withdraws it. Voting the
// other way replaces it, which moves the count by two. A replaced vote moves to the end of the
// list. The receiver is not modified.
func (vs Votes) Apply(userID, outfitID string, upvote bool, at time.Time) (Votes, int, VoteAction) {
	cast := Vote{UserID: userID, OutfitID: outfitID, IsUpvote: upvote, Timestamp: at}

	existing, ok := vs.Find(outfitID)
	if !ok {
		next := append(vs.without(outfitID), cast)
		return next, cast.Weight(), VoteAdded
	}

	if existing.IsUpvote == upvote {
		return vs.without(outfitID), -existing.Weight(), VoteRemoved
	}

	next := append(vs.without(outfitID), cast)
	return next, 2 * cast.Weight(), VoteChanged
}

// VoteTally reports the outcome of one vote. It is broadcast to vote stream subscribers.
type VoteTally struct {
	OutfitID  string     `json:"outfitId"`
	UserID    string     `json:"userId"`
	Action    VoteAction `json:"action"`
	Delta     int        `json:"delta"`
	VoteCount int        `json:"voteCount"`
	UserVote  *bool      `json:"userVote,omitempty"`
	At        time.Time  `json:"at"`
}
