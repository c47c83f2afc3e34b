package domain

import "errors"

// Sentinel errors for session operations
var (
	// ErrUnavailable indicates a collaborator (presence service, catalog source, pin store) could not be reached
	ErrUnavailable = errors.New("collaborator unavailable")

	// ErrInvalidPayload indicates catalog or pin data failed to decode or validate
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrNotInView indicates the requested title is not in the visible list
	ErrNotInView = errors.New("title not in view")

	// ErrBusy indicates a catalog fetch or console switch is already in flight
	ErrBusy = errors.New("operation already in progress")

	// ErrUnknownConsole indicates an unsupported console target
	ErrUnknownConsole = errors.New("unknown console")

	// ErrInactiveConsole indicates a catalog request for a console other than the active one
	ErrInactiveConsole = errors.New("console is not active")
)
