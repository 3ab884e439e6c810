package repositories

import (
	"chat-gateway/domain"
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type DiskMessage struct {
	ID       uuid.UUID `json:"id"`
	RoomID   string    `json:"room_id"`
	SenderID string    `json:"sender_id"`
	Content  string    `json:"content"`
	At       time.Time `json:"at"`
}

// CreateMessage persists a message in BadgerDB and resolves its sender in the same transaction.
// The key is formatted as "msg:{room_id}:{timestamp_padded}:{uuid}" so a prefix scan
// returns a room's messages in chronological order, the UUID separating messages
// stored within the same nanosecond.
func (s *BadgerStore) CreateMessage(_ context.Context, message NewMessage) (domain.Message, error) {
	disk := DiskMessage{
		ID:       uuid.New(),
		RoomID:   string(message.RoomID),
		SenderID: string(message.SenderID),
		Content:  message.Content,
		At:       s.now(),
	}
	var sender DiskUser
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := getJSON(txn, userPrefix+disk.SenderID, &sender); err != nil {
			return fmt.Errorf("sender: %w", err)
		}
		var room DiskRoom
		if err := getJSON(txn, roomPrefix+disk.RoomID, &room); err != nil {
			return fmt.Errorf("room: %w", err)
		}
		return setJSON(txn, messageKey(disk), disk)
	})
	if err != nil {
		return domain.Message{}, err
	}
	return toMessage(disk, sender), nil
}

func messageKey(disk DiskMessage) string {
	return fmt.Sprintf("%s%s:%019d:%s", messagePrefix, disk.RoomID, disk.At.UnixNano(), disk.ID)
}

func toMessage(disk DiskMessage, sender DiskUser) domain.Message {
	return domain.Message{
		ID:        disk.ID,
		Content:   disk.Content,
		SenderID:  domain.UserID(disk.SenderID),
		RoomID:    domain.RoomID(disk.RoomID),
		CreatedAt: disk.At,
		Sender:    domain.Sender{ID: domain.UserID(sender.ID), Name: sender.Name},
	}
}
