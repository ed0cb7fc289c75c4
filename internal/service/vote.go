package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/krakosik/runway/internal/dto"
	"github.com/krakosik/runway/internal/model"
	"github.com/krakosik/runway/internal/repository"
	"github.com/sirupsen/logrus"
)

type VoteService interface {
	Vote(ctx context.Context, user model.User, outfitID string, upvote bool) (model.VoteTally, error)
	Subscribe(id string) (*VoteSubscriber, error)
	Unsubscribe(id string)
}

type voteService struct {
	voteRepository repository.VoteRepository
	voteBroker     VoteBroker
}

func newVoteService(voteRepository repository.VoteRepository, voteBroker VoteBroker) VoteService {
	return &voteService{
		voteRepository: voteRepository,
		voteBroker:     voteBroker,
	}
}

func (v *voteService) Vote(ctx context.Context, user model.User, outfitID string, upvote bool) (model.VoteTally, error) {
	if strings.TrimSpace(outfitID) == "" {
		return model.VoteTally{}, fmt.Errorf("%w: outfit id is required", dto.ErrInvalidArgument)
	}

	tally, err := v.voteRepository.Cast(ctx, user.ID, outfitID, upvote)
	if err != nil {
		return model.VoteTally{}, err
	}
	tally.UserID = user.ID

	VotesCastTotal.WithLabelValues(string(tally.Action)).Inc()
	logrus.Infof("User %s vote on outfit %s %s, count is now %d", user.Identifier(), outfitID, tally.Action, tally.VoteCount)

	v.voteBroker.Publish(ctx, tally)
	return tally, nil
}

func (v *voteService) Subscribe(id string) (*VoteSubscriber, error) {
	return v.voteBroker.Subscribe(id)
}

func (v *voteService) Unsubscribe(id string) {
	v.voteBroker.Unsubscribe(id)
}
