// Package domain contains core concepts of the chat system.
// This file defines Message records.
// Messages are immutable once persisted.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is a persisted chat message with its sender already resolved.
type Message struct {
	ID        uuid.UUID
	Content   string
	SenderID  UserID
	RoomID    RoomID
	CreatedAt time.Time
	Sender    Sender
}

type Sender struct {
	ID   UserID
	Name string
}
