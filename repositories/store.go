//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=../mocks/mock_directory_store.go -package=mocks
package repositories

import (
	"chat-gateway/domain"
	"context"
)

// IDirectoryStore is the durable lookup and creation surface the gateway consumes.
// Lookups of a missing record return errors.ErrNotFound.
type IDirectoryStore interface {
	FindUserByID(ctx context.Context, id domain.UserID) (domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (domain.User, error)
	// FindUsersByIDs returns the users found, in the order of ids, skipping unknown ones.
	FindUsersByIDs(ctx context.Context, ids []domain.UserID) ([]domain.User, error)
	CreateUser(ctx context.Context, user NewUser) (domain.User, error)
	FindRoomByID(ctx context.Context, id domain.RoomID) (domain.Room, error)
	FindMembership(ctx context.Context, userID domain.UserID, roomID domain.RoomID) (domain.Membership, error)
	CreateRoom(ctx context.Context, room NewRoom) (domain.Room, error)
	// CreateMembership is idempotent: an existing pair is returned unchanged.
	CreateMembership(ctx context.Context, userID domain.UserID, roomID domain.RoomID) (domain.Membership, error)
	// CreateMessage persists the message and returns it with its sender attached.
	CreateMessage(ctx context.Context, message NewMessage) (domain.Message, error)
}

type NewUser struct {
	Name         string
	Email        string
	PasswordHash string
}

type NewRoom struct {
	Name      string
	IsPrivate bool
	OwnerID   domain.UserID
}

type NewMessage struct {
	RoomID   domain.RoomID
	SenderID domain.UserID
	Content  string
}
