package repository

import (
	"errors"
	"fmt"

	"github.com/krakosik/runway/internal/dto"
	"gorm.io/gorm"
)

func wrapGormError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", dto.ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", dto.ErrConflict, err)
	default:
		return fmt.Errorf("%w: %v", dto.ErrInternalFailure, err)
	}
}
