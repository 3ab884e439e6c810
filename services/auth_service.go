package services

import (
	"chat-gateway/auth"
	"chat-gateway/errors"
	"chat-gateway/repositories"
	"context"
	"fmt"
	"time"
)

type IAuthService interface {
	Login(ctx context.Context, email, password string) (Token, error)
	Register(ctx context.Context, name, email, password string) (Token, error)
}

// AuthService issues the bearer tokens the gateway verifies at connection time.
type AuthService struct {
	store  repositories.IDirectoryStore
	secret string
	ttl    time.Duration
}

type Token string

func (t Token) String() string {
	return string(t)
}

func NewAuthService(store repositories.IDirectoryStore, secret string, ttl time.Duration) IAuthService {
	return &AuthService{store: store, secret: secret, ttl: ttl}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (Token, error) {
	// Rules are checked before any expensive hashing
	if err := auth.ValidateRegister(auth.RegisterRequest{Name: name, Email: email, Password: password}); err != nil {
		if errors.Is(err, errors.ErrInvalidPassword) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}

	user, err := s.store.CreateUser(ctx, repositories.NewUser{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
	})
	if err != nil {
		return "", err // ErrUserAlreadyExists when the email is taken
	}

	token, err := auth.GenerateToken(s.secret, user, s.ttl)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return Token(token), nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (Token, error) {
	if err := auth.ValidateLogin(auth.LoginRequest{Email: email, Password: password}); err != nil {
		return "", errors.ErrInvalidCredentials
	}

	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		// Same answer for unknown email and wrong password
		return "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(s.secret, user, s.ttl)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return Token(token), nil
}
