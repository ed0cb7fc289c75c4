package repository

import (
	"context"
	"time"

	"github.com/krakosik/runway/internal/model"
	"gorm.io/gorm"
)

type outfit struct {
	db  *gorm.DB
	now func() time.Time
}

func newOutfitRepository(db *gorm.DB, now func() time.Time) OutfitRepository {
	return &outfit{
		db:  db,
		now: now,
	}
}

func (o *outfit) List(ctx context.Context) ([]model.Outfit, error) {
	var outfits []model.Outfit
	result := o.db.WithContext(ctx).Order("id").Find(&outfits)
	if result.Error != nil {
		return nil, wrapGormError(result.Error)
	}
	return outfits, nil
}

func (o *outfit) GetByID(ctx context.Context, id string) (model.Outfit, error) {
	var outfit model.Outfit
	result := o.db.WithContext(ctx).First(&outfit, "id = ?", id)
	if result.Error != nil {
		return model.Outfit{}, wrapGormError(result.Error)
	}
	return outfit, nil
}

func (o *outfit) Save(ctx context.Context, outfit model.Outfit) (model.Outfit, error) {
	if outfit.ID == "" {
		outfit.ID = newDocumentID()
	}
	if outfit.CreatedAt.IsZero() {
		outfit.CreatedAt = o.now()
	}
	result := o.db.WithContext(ctx).Save(&outfit)
	if result.Error != nil {
		return model.Outfit{}, wrapGormError(result.Error)
	}
	return outfit, nil
}

func (o *outfit) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	result := o.db.WithContext(ctx).Model(&model.Outfit{}).Count(&count)
	if result.Error != nil {
		return false, wrapGormError(result.Error)
	}
	return count == 0, nil
}
