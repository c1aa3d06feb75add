package domain

import "errors"

var (
	// ErrAlreadyConnected means a connection id was registered twice;
	// the transport assigns unique ids, so this signals an internal bug.
	ErrAlreadyConnected = errors.New("connection already registered")

	// ErrNotConnected means an operation referenced an unknown connection.
	ErrNotConnected = errors.New("connection not registered")

	// ErrNotMember means a move or mute referenced a connection or user
	// with no current room membership.
	ErrNotMember = errors.New("not a room member")

	ErrInvalidRoom = errors.New("invalid room name")

	// ErrStoreUnavailable wraps presence store failures so callers can
	// distinguish them from registry-level errors.
	ErrStoreUnavailable = errors.New("presence store unavailable")
)
