package repositories

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned by conditional inserts when the row already
	// existed at commit time. Callers treat it as a conflict, not a failure.
	ErrDuplicate = errors.New("record already exists")
)

// IsNotFoundError reports whether err means "no such record", regardless of
// whether it originated in gorm or in this package.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError reports whether err came from a conditional insert that
// found the row already present.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
