package domain

import "errors"

var (
	// ErrUnauthenticated is returned when an action is attempted on a
	// connection with no resolved identity.
	ErrUnauthenticated = errors.New("connection is not authenticated")

	// ErrBadDestination is returned when a message names both a receiver
	// and a group, or neither.
	ErrBadDestination = errors.New("message must have exactly one of receiverId or groupId")

	// ErrUnresolved is returned by an identity resolver when the handshake
	// metadata does not resolve to a user.
	ErrUnresolved = errors.New("identity could not be resolved")
)
