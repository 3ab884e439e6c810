package errors

import (
	"errors"
	"fmt"
)

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	// Authentication failures are terminal: the connection is closed.
	ErrMissingToken = fmt.Errorf("authorization token missing")
	ErrInvalidToken = fmt.Errorf("invalid token")
	ErrUnknownUser  = fmt.Errorf("user not found")

	// Join failures are reported to the requesting connection only.
	ErrRoomNotFound = fmt.Errorf("room not found")
	ErrNotAMember   = fmt.Errorf("not allowed to join private room")

	// ErrPersistenceFailed wraps every directory store write failure seen by the gateway.
	ErrPersistenceFailed = fmt.Errorf("persistence failed")

	ErrNotFound           = fmt.Errorf("record not found")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity requirements")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrInvalidPayload     = fmt.Errorf("invalid payload")
	ErrConnectionClosed   = fmt.Errorf("connection closed")
	ErrSlowConsumer       = fmt.Errorf("connection send buffer full")
	ErrEmptyWords         = fmt.Errorf("no censored words loaded")
)

// IsAuthError reports whether err must terminate the connection.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrMissingToken) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrUnknownUser)
}

// MapToMessage converts a gateway error into the string carried by an error event.
// The fallback is used when err does not match any known failure.
func MapToMessage(err error, fallback string) string {
	switch {
	case errors.Is(err, ErrMissingToken):
		return "Authorization token missing"
	case errors.Is(err, ErrInvalidToken):
		return "Invalid token"
	case errors.Is(err, ErrUnknownUser):
		return "User not found"
	case errors.Is(err, ErrRoomNotFound):
		return "Room not found"
	case errors.Is(err, ErrNotAMember):
		return "Not allowed to join private room"
	case errors.Is(err, ErrInvalidPayload):
		return "Invalid payload"
	default:
		return fallback
	}
}

// Is forwards to the standard library so callers importing this package keep errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}
