package repository

import (
	"context"
	"time"

	"github.com/krakosik/runway/internal/model"
	"gorm.io/gorm"
)

type event struct {
	db  *gorm.DB
	now func() time.Time
}

func newEventRepository(db *gorm.DB, now func() time.Time) EventRepository {
	return &event{
		db:  db,
		now: now,
	}
}

func (e *event) List(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	result := e.db.WithContext(ctx).Order("id").Find(&events)
	if result.Error != nil {
		return nil, wrapGormError(result.Error)
	}
	return events, nil
}

func (e *event) GetByID(ctx context.Context, id string) (model.Event, error) {
	var event model.Event
	result := e.db.WithContext(ctx).First(&event, "id = ?", id)
	if result.Error != nil {
		return model.Event{}, wrapGormError(result.Error)
	}
	return event, nil
}

func (e *event) Save(ctx context.Context, event model.Event) (model.Event, error) {
	if event.ID == "" {
		event.ID = newDocumentID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = e.now()
	}
	result := e.db.WithContext(ctx).Save(&event)
	if result.Error != nil {
		return model.Event{}, wrapGormError(result.Error)
	}
	return event, nil
}

func (e *event) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	result := e.db.WithContext(ctx).Model(&model.Event{}).Count(&count)
	if result.Error != nil {
		return false, wrapGormError(result.Error)
	}
	return count == 0, nil
}
