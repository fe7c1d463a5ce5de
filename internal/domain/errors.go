package domain

import "errors"

var (
	// ErrNotFound is returned when a referenced dealer, item, location, transfer or scenario does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a transfer is no longer in an approvable state.
	ErrConflict = errors.New("conflict")
)
