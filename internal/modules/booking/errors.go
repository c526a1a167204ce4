package booking

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrConflict          = errors.New("booking conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotFound          = errors.New("booking not found")
	ErrForbidden         = errors.New("forbidden")
	ErrNothingToExport   = errors.New("nothing to export")

	ErrUnknownCabin     = fmt.Errorf("%w: unknown cabin", ErrValidation)
	ErrAlreadyBooked    = fmt.Errorf("%w: already has a booking", ErrConflict)
	ErrCabinUnavailable = fmt.Errorf("%w: cabin unavailable", ErrConflict)
)
