package domain

import "time"

type RoomID string

type Room struct {
	ID        RoomID
	Name      string
	IsPrivate bool
	OwnerID   UserID
	CreatedAt time.Time
}

// Membership is the durable authorization record allowing a user to join a private room.
// It is unique per (UserID, RoomID) and never deleted by the gateway.
type Membership struct {
	UserID    UserID
	RoomID    RoomID
	CreatedAt time.Time
}
