// Package domain contains core concepts of the chat system.
// This file defines User entities as seen by the gateway.
// No runtime, network, or storage logic should be added here.
package domain

import "time"

type UserID string

// User is owned by the directory store and never mutated by the gateway.
type User struct {
	ID           UserID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
