package services

import "errors"

// Error kinds surfaced by the service layer. Handlers map these to HTTP
// statuses with errors.Is; everything else is treated as a 500.
var (
	ErrNotFound                 = errors.New("not found")
	ErrForbidden                = errors.New("forbidden")
	ErrInvalidState             = errors.New("wheel is not open")
	ErrNotDue                   = errors.New("spin time not reached yet")
	ErrInsufficientParticipants = errors.New("need at least 2 participants")
	ErrDuplicateName            = errors.New("name already taken on this wheel")
	ErrWheelFull                = errors.New("wheel is full")
	ErrWheelClosed              = errors.New("wheel is closed")
	ErrStoreUnavailable         = errors.New("store unavailable")
)
