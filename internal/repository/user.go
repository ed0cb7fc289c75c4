package repository

import (
	"context"
	"time"

	"github.com/krakosik/runway/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type user struct {
	db  *gorm.DB
	now func() time.Time
}

func newUserRepository(db *gorm.DB, now func() time.Time) UserRepository {
	return &user{
		db:  db,
		now: now,
	}
}

func (u *user) GetByID(ctx context.Context, id string) (model.User, error) {
	return u.load(u.db.WithContext(ctx), id)
}

func (u *user) load(db *gorm.DB, id string) (model.User, error) {
	var user model.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		return model.User{}, wrapGormError(err)
	}

	var votes []model.Vote
	if err := db.Where("user_id = ?", id).Order("cast_at").Find(&votes).Error; err != nil {
		return model.User{}, wrapGormError(err)
	}
	user.Votes = model.Votes(votes)

	user.Favorites = []string{}
	err := db.Model(&model.FavoriteEvent{}).
		Where("user_id = ?", id).
		Order("added_at").
		Pluck("event_id", &user.Favorites).Error
	if err != nil {
		return model.User{}, wrapGormError(err)
	}

	return user, nil
}

func (u *user) Create(ctx context.Context, user model.User) (model.User, error) {
	now := u.now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	user.Favorites = []string{}
	user.Votes = model.Votes{}

	if err := u.db.WithContext(ctx).Create(&user).Error; err != nil {
		return model.User{}, wrapGormError(err)
	}
	return user, nil
}

func (u *user) Update(ctx context.Context, id string, update model.ProfileUpdate) (model.User, error) {
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, "id = ?", id).Error; err != nil {
			return err
		}
		update.ApplyTo(&user)
		user.UpdatedAt = u.now()
		return tx.Save(&user).Error
	})
	if err != nil {
		return model.User{}, wrapGormError(err)
	}
	return u.GetByID(ctx, id)
}

func (u *user) AddFavorite(ctx context.Context, userID, eventID string) error {
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&model.User{}, "id = ?", userID).Error; err != nil {
			return err
		}
		favorite := model.FavoriteEvent{UserID: userID, EventID: eventID, AddedAt: u.now()}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&favorite).Error
	})
	if err != nil {
		return wrapGormError(err)
	}
	return nil
}

func (u *user) RemoveFavorite(ctx context.Context, userID, eventID string) error {
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&model.User{}, "id = ?", userID).Error; err != nil {
			return err
		}
		return tx.Delete(&model.FavoriteEvent{}, "user_id = ? AND event_id = ?", userID, eventID).Error
	})
	if err != nil {
		return wrapGormError(err)
	}
	return nil
}

func (u *user) ListFavorites(ctx context.Context, userID string) ([]model.FavoriteEvent, error) {
	var favorites []model.FavoriteEvent
	result := u.db.WithContext(ctx).Where("user_id = ?", userID).Order("added_at").Find(&favorites)
	if result.Error != nil {
		return nil, wrapGormError(result.Error)
	}
	return favorites, nil
}

func (u *user) SavePushToken(ctx context.Context, token model.PushToken) (model.PushToken, error) {
	token.CreatedAt = u.now()
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&model.User{}, "id = ?", token.UserID).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&token).Error
	})
	if err != nil {
		return model.PushToken{}, wrapGormError(err)
	}
	return token, nil
}

func (u *user) GetPushToken(ctx context.Context, userID string) (model.PushToken, error) {
	var token model.PushToken
	if err := u.db.WithContext(ctx).First(&token, "user_id = ?", userID).Error; err != nil {
		return model.PushToken{}, wrapGormError(err)
	}
	return token, nil
}
