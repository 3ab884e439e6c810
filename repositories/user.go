package repositories

import (
	"chat-gateway/domain"
	"chat-gateway/errors"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// DiskUser is the stored representation of a user.
type DiskUser struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

func (s *BadgerStore) CreateUser(_ context.Context, user NewUser) (domain.User, error) {
	email := normalizeEmail(user.Email)
	disk := DiskUser{
		ID:           uuid.NewString(),
		Name:         user.Name,
		Email:        email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    s.now(),
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		taken, err := exists(txn, emailPrefix+email)
		if err != nil {
			return err
		}
		if taken {
			return errors.ErrUserAlreadyExists
		}
		if err = txn.Set([]byte(emailPrefix+email), []byte(disk.ID)); err != nil {
			return err
		}
		return setJSON(txn, userPrefix+disk.ID, disk)
	})
	if err != nil {
		return domain.User{}, err
	}
	return toUser(disk), nil
}

func (s *BadgerStore) FindUserByID(_ context.Context, id domain.UserID) (domain.User, error) {
	var disk DiskUser
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, userPrefix+string(id), &disk)
	})
	if err != nil {
		return domain.User{}, err
	}
	return toUser(disk), nil
}

func (s *BadgerStore) FindUserByEmail(_ context.Context, email string) (domain.User, error) {
	var disk DiskUser
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(emailPrefix + normalizeEmail(email)))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("email %s: %w", email, errors.ErrNotFound)
			}
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return getJSON(txn, userPrefix+string(id), &disk)
	})
	if err != nil {
		return domain.User{}, err
	}
	return toUser(disk), nil
}

func (s *BadgerStore) FindUsersByIDs(_ context.Context, ids []domain.UserID) ([]domain.User, error) {
	users := make([]domain.User, 0, len(ids))
	err := s.db.View(func(txn *badger.Txn) error {
		for _, id := range lo.Uniq(ids) {
			var disk DiskUser
			err := getJSON(txn, userPrefix+string(id), &disk)
			if errors.Is(err, errors.ErrNotFound) {
				s.log.Debug("Unknown user skipped", "user_id", id)
				continue
			}
			if err != nil {
				return err
			}
			users = append(users, toUser(disk))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUser(disk DiskUser) domain.User {
	return domain.User{
		ID:           domain.UserID(disk.ID),
		Name:         disk.Name,
		Email:        disk.Email,
		PasswordHash: disk.PasswordHash,
		CreatedAt:    disk.CreatedAt,
	}
}
