package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrDuplicate is returned when a unique key (profile/date, profile/type/year,
// employee code) is already taken.
var ErrDuplicate = errors.New("record already exists")

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}
