package repository

import (
	"context"
	"time"

	"github.com/krakosik/runway/internal/model"
	"gorm.io/gorm"
)

type wardrobe struct {
	db  *gorm.DB
	now func() time.Time
}

func newWardrobeRepository(db *gorm.DB, now func() time.Time) WardrobeRepository {
	return &wardrobe{
		db:  db,
		now: now,
	}
}

func (w *wardrobe) List(ctx context.Context, userID, category string) ([]model.WardrobeItem, error) {
	query := w.db.WithContext(ctx).Where("user_id = ?", userID)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	items := []model.WardrobeItem{}
	if err := query.Order("created_at").Order("id").Find(&items).Error; err != nil {
		return nil, wrapGormError(err)
	}
	return items, nil
}

func (w *wardrobe) Add(ctx context.Context, item model.WardrobeItem) (model.WardrobeItem, error) {
	if item.ID == "" {
		item.ID = newDocumentID()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = w.now()
	}

	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&model.User{}, "id = ?", item.UserID).Error; err != nil {
			return err
		}
		return tx.Create(&item).Error
	})
	if err != nil {
		return model.WardrobeItem{}, wrapGormError(err)
	}
	return item, nil
}

func (w *wardrobe) Delete(ctx context.Context, userID, itemID string) error {
	result := w.db.WithContext(ctx).Delete(&model.WardrobeItem{}, "user_id = ? AND id = ?", userID, itemID)
	if result.Error != nil {
		return wrapGormError(result.Error)
	}
	return nil
}
