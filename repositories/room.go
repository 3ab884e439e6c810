package repositories

import (
	"chat-gateway/domain"
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type DiskRoom struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsPrivate bool      `json:"is_private"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

type DiskMembership struct {
	UserID    string    `json:"user_id"`
	RoomID    string    `json:"room_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateRoom only writes the room. The owner's membership is a separate write,
// issued by the caller right after.
func (s *BadgerStore) CreateRoom(_ context.Context, room NewRoom) (domain.Room, error) {
	disk := DiskRoom{
		ID:        uuid.NewString(),
		Name:      room.Name,
		IsPrivate: room.IsPrivate,
		OwnerID:   string(room.OwnerID),
		CreatedAt: s.now(),
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, roomPrefix+disk.ID, disk)
	})
	if err != nil {
		return domain.Room{}, err
	}
	return toRoom(disk), nil
}

func (s *BadgerStore) FindRoomByID(_ context.Context, id domain.RoomID) (domain.Room, error) {
	var disk DiskRoom
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, roomPrefix+string(id), &disk)
	})
	if err != nil {
		return domain.Room{}, err
	}
	return toRoom(disk), nil
}

func (s *BadgerStore) FindMembership(_ context.Context, userID domain.UserID, roomID domain.RoomID) (domain.Membership, error) {
	var disk DiskMembership
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, membershipKey(userID, roomID), &disk)
	})
	if err != nil {
		return domain.Membership{}, err
	}
	return toMembership(disk), nil
}

func (s *BadgerStore) CreateMembership(_ context.Context, userID domain.UserID, roomID domain.RoomID) (domain.Membership, error) {
	key := membershipKey(userID, roomID)
	disk := DiskMembership{UserID: string(userID), RoomID: string(roomID), CreatedAt: s.now()}
	err := s.db.Update(func(txn *badger.Txn) error {
		found, err := exists(txn, key)
		if err != nil {
			return err
		}
		if found {
			return getJSON(txn, key, &disk)
		}
		return setJSON(txn, key, disk)
	})
	if err != nil {
		return domain.Membership{}, err
	}
	return toMembership(disk), nil
}

func membershipKey(userID domain.UserID, roomID domain.RoomID) string {
	return fmt.Sprintf("%s%s:%s", membershipPrefix, roomID, userID)
}

func toRoom(disk DiskRoom) domain.Room {
	return domain.Room{
		ID:        domain.RoomID(disk.ID),
		Name:      disk.Name,
		IsPrivate: disk.IsPrivate,
		OwnerID:   domain.UserID(disk.OwnerID),
		CreatedAt: disk.CreatedAt,
	}
}

func toMembership(disk DiskMembership) domain.Membership {
	return domain.Membership{
		UserID:    domain.UserID(disk.UserID),
		RoomID:    domain.RoomID(disk.RoomID),
		CreatedAt: disk.CreatedAt,
	}
}
