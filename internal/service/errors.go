package service

import (
	"errors"

	"gorm.io/gorm"
)

// Sentinel errors services return to the handler layer, which maps them onto
// HTTP statuses: ErrNotFound → 404, ErrInvalidInput → 400,
// ErrInvalidCredentials → 401. Anything else is a storage failure → 500.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// asNotFound collapses GORM's record-not-found into the service taxonomy and
// passes other storage errors through untouched.
func asNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
