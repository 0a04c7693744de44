package errs

import "errors"

// Domain-specific sentinel errors for the booking usecase layers.
var (
	// Lookup errors
	ErrServiceNotFound     = errors.New("service not found")
	ErrBarberNotFound      = errors.New("barber not found")
	ErrAppointmentNotFound = errors.New("appointment not found")

	// Booking errors
	ErrUnknownAddons          = errors.New("unknown addon ids")
	ErrInvalidSlotInterval    = errors.New("slot interval must be a positive divisor of 60")
	ErrInvalidDuration        = errors.New("duration must be positive")
	ErrSlotTaken              = errors.New("requested slot is already taken")
	ErrInvalidStateTransition = errors.New("invalid appointment state transition")
	ErrNotAppointmentOwner    = errors.New("appointment belongs to another user")
)
