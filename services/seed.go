package services

import (
	"chat-gateway/auth"
	"chat-gateway/domain"
	"chat-gateway/repositories"
	"context"
	"fmt"
	"strings"
	"time"
)

const SeedPassword = "pw123"

type SeededUser struct {
	User  domain.User
	Token Token
}

type SeedResult struct {
	Users    []SeededUser
	Room     domain.Room
	Messages []domain.Message
}

// Seed fills an empty directory with Alice and Bob, the public room General owned by Alice
// with both as members, and a short conversation. Running it twice fails on the first user.
func Seed(ctx context.Context, store repositories.IDirectoryStore, secret string, ttl time.Duration) (SeedResult, error) {
	hash, err := auth.HashPassword(SeedPassword)
	if err != nil {
		return SeedResult{}, fmt.Errorf("hashing failed: %w", err)
	}

	var res SeedResult
	for _, name := range []string{"Alice", "Bob"} {
		user, err := store.CreateUser(ctx, repositories.NewUser{
			Name:         name,
			Email:        strings.ToLower(name) + "@example.com",
			PasswordHash: hash,
		})
		if err != nil {
			return SeedResult{}, fmt.Errorf("seed user %s: %w", name, err)
		}
		token, err := auth.GenerateToken(secret, user, ttl)
		if err != nil {
			return SeedResult{}, fmt.Errorf("seed token %s: %w", name, err)
		}
		res.Users = append(res.Users, SeededUser{User: user, Token: Token(token)})
	}
	alice, bob := res.Users[0].User, res.Users[1].User

	res.Room, err = store.CreateRoom(ctx, repositories.NewRoom{Name: "General", OwnerID: alice.ID})
	if err != nil {
		return SeedResult{}, fmt.Errorf("seed room: %w", err)
	}
	for _, user := range []domain.User{alice, bob} {
		if _, err := store.CreateMembership(ctx, user.ID, res.Room.ID); err != nil {
			return SeedResult{}, fmt.Errorf("seed membership %s: %w", user.Name, err)
		}
	}

	for _, m := range []repositories.NewMessage{
		{RoomID: res.Room.ID, SenderID: alice.ID, Content: "Hello everyone"},
		{RoomID: res.Room.ID, SenderID: bob.ID, Content: "Hi Alice!"},
	} {
		msg, err := store.CreateMessage(ctx, m)
		if err != nil {
			return SeedResult{}, fmt.Errorf("seed message: %w", err)
		}
		res.Messages = append(res.Messages, msg)
	}
	return res, nil
}
