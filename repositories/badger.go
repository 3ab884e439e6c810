package repositories

import (
	"chat-gateway/errors"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Key layout:
//
//	user:{id}                         -> DiskUser
//	email:{email}                     -> user id
//	room:{id}                         -> DiskRoom
//	membership:{room_id}:{user_id}    -> DiskMembership
//	msg:{room_id}:{unix_nano_19}:{id} -> DiskMessage
const (
	userPrefix       = "user:"
	emailPrefix      = "email:"
	roomPrefix       = "room:"
	membershipPrefix = "membership:"
	messagePrefix    = "msg:"
)

// BadgerStore is the embedded IDirectoryStore backed by BadgerDB.
type BadgerStore struct {
	db  *badger.DB
	log *slog.Logger
	now func() time.Time
}

func NewBadgerStore(db *badger.DB, log *slog.Logger) *BadgerStore {
	return &BadgerStore{db: db, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func getJSON(txn *badger.Txn, key string, out any) error {
	item, err := txn.Get([]byte(key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%s: %w", key, errors.ErrNotFound)
		}
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, out)
	})
}

func setJSON(txn *badger.Txn, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return txn.Set([]byte(key), data)
}

func exists(txn *badger.Txn, key string) (bool, error) {
	_, err := txn.Get([]byte(key))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	default:
		return false, err
	}
}
