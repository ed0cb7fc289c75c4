package repository

import (
	"context"
	"errors"
	"time"

	"github.com/krakosik/runway/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type vote struct {
	db  *gorm.DB
	now func() time.Time
}

func newVoteRepository(db *gorm.DB, now func() time.Time) VoteRepository {
	return &vote{
		db:  db,
		now: now,
	}
}

func (v *vote) Cast(ctx context.Context, userID, outfitID string, upvote bool) (model.VoteTally, error) {
	var tally model.VoteTally
	err := v.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var outfit model.Outfit
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&outfit, "id = ?", outfitID).Error; err != nil {
			return err
		}
		if err := tx.Select("id").First(&model.User{}, "id = ?", userID).Error; err != nil {
			return err
		}

		var current model.Votes
		var existing model.Vote
		err := tx.Where("user_id = ? AND outfit_id = ?", userID, outfitID).First(&existing).Error
		switch {
		case err == nil:
			current = model.Votes{existing}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		at := v.now()
		next, delta, action := current.Apply(userID, outfitID, upvote, at)

		switch action {
		case model.VoteAdded, model.VoteChanged:
			cast, _ := next.Find(outfitID)
			if err := tx.Save(&cast).Error; err != nil {
				return err
			}
		case model.VoteRemoved:
			if err := tx.Delete(&model.Vote{}, "user_id = ? AND outfit_id = ?", userID, outfitID).Error; err != nil {
				return err
			}
		}

		result := tx.Model(&model.Outfit{}).
			Where("id = ?", outfitID).
			Update("vote_count", gorm.Expr("vote_count + ?", delta))
		if result.Error != nil {
			return result.Error
		}

		tally = newTally(outfitID, next, delta, action, outfit.VoteCount+delta, at)
		return nil
	})
	if err != nil {
		return model.VoteTally{}, wrapGormError(err)
	}
	return tally, nil
}
