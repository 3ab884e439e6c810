// Package postgres provides an IDirectoryStore backed by PostgreSQL through pgx.
package postgres

import (
	"chat-gateway/domain"
	"chat-gateway/errors"
	"chat-gateway/repositories"
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
)

//go:embed schema.sql
var schema string

const uniqueViolation = "23505"

var _ repositories.IDirectoryStore = (*Store)(nil)

type Store struct {
	pool *pgxpool.Pool
}

// NewStore opens a connection pool and checks it is reachable.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// Migrate creates the tables when they do not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

func (s *Store) CreateUser(ctx context.Context, user repositories.NewUser) (domain.User, error) {
	var u domain.User
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, email, password_hash, created_at
	`, uuid.NewString(), user.Name, strings.ToLower(strings.TrimSpace(user.Email)), user.PasswordHash).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.User{}, errors.ErrUserAlreadyExists
		}
		return domain.User{}, err
	}
	return u, nil
}

func (s *Store) FindUserByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	return s.findUser(ctx, `WHERE id = $1`, string(id))
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return s.findUser(ctx, `WHERE email = $1`, strings.ToLower(strings.TrimSpace(email)))
}

func (s *Store) findUser(ctx context.Context, where string, arg any) (domain.User, error) {
	var u domain.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users `+where, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return domain.User{}, notFound(err, "user")
	}
	return u, nil
}

func (s *Store) FindUsersByIDs(ctx context.Context, ids []domain.UserID) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}
	keys := lo.Map(lo.Uniq(ids), func(id domain.UserID, _ int) string { return string(id) })
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, email, password_hash, created_at
		FROM users WHERE id = ANY($1)
	`, keys)
	if err != nil {
		return nil, err
	}
	found, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.User, error) {
		var u domain.User
		err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
		return u, err
	})
	if err != nil {
		return nil, err
	}
	byID := lo.KeyBy(found, func(u domain.User) string { return string(u.ID) })
	return lo.FilterMap(keys, func(id string, _ int) (domain.User, bool) {
		u, ok := byID[id]
		return u, ok
	}), nil
}

func (s *Store) CreateRoom(ctx context.Context, room repositories.NewRoom) (domain.Room, error) {
	var r domain.Room
	err := s.pool.QueryRow(ctx, `
		INSERT INTO rooms (id, name, is_private, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, is_private, owner_id, created_at
	`, uuid.NewString(), room.Name, room.IsPrivate, string(room.OwnerID)).
		Scan(&r.ID, &r.Name, &r.IsPrivate, &r.OwnerID, &r.CreatedAt)
	if err != nil {
		return domain.Room{}, err
	}
	return r, nil
}

func (s *Store) FindRoomByID(ctx context.Context, id domain.RoomID) (domain.Room, error) {
	var r domain.Room
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, is_private, owner_id, created_at FROM rooms WHERE id = $1
	`, string(id)).Scan(&r.ID, &r.Name, &r.IsPrivate, &r.OwnerID, &r.CreatedAt)
	if err != nil {
		return domain.Room{}, notFound(err, "room")
	}
	return r, nil
}

func (s *Store) FindMembership(ctx context.Context, userID domain.UserID, roomID domain.RoomID) (domain.Membership, error) {
	var m domain.Membership
	err := s.pool.QueryRow(ctx, `
		SELECT user_id, room_id, created_at FROM room_memberships
		WHERE user_id = $1 AND room_id = $2
	`, string(userID), string(roomID)).Scan(&m.UserID, &m.RoomID, &m.CreatedAt)
	if err != nil {
		return domain.Membership{}, notFound(err, "membership")
	}
	return m, nil
}

func (s *Store) CreateMembership(ctx context.Context, userID domain.UserID, roomID domain.RoomID) (domain.Membership, error) {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO room_memberships (user_id, room_id) VALUES ($1, $2)
		ON CONFLICT (user_id, room_id) DO NOTHING
	`, string(userID), string(roomID))
	if err != nil {
		return domain.Membership{}, err
	}
	return s.FindMembership(ctx, userID, roomID)
}

func (s *Store) CreateMessage(ctx context.Context, message repositories.NewMessage) (domain.Message, error) {
	var m domain.Message
	err := s.pool.QueryRow(ctx, `
		WITH inserted AS (
			INSERT INTO messages (id, content, sender_id, room_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id, content, sender_id, room_id, created_at
		)
		SELECT i.id, i.content, i.sender_id, i.room_id, i.created_at, u.id, u.name
		FROM inserted i JOIN users u ON u.id = i.sender_id
	`, uuid.New(), message.Content, string(message.SenderID), string(message.RoomID)).
		Scan(&m.ID, &m.Content, &m.SenderID, &m.RoomID, &m.CreatedAt, &m.Sender.ID, &m.Sender.Name)
	if err != nil {
		return domain.Message{}, err
	}
	return m, nil
}

func notFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, errors.ErrNotFound)
	}
	return err
}
