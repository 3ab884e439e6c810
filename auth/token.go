//go:generate go run go.uber.org/mock/mockgen -source=token.go -destination=../mocks/mock_verifier.go -package=mocks
package auth

import (
	"chat-gateway/domain"
	"chat-gateway/errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "chat-gateway"

// Verifier validates a bearer credential and yields the identity it was issued for.
// Any failure is an authentication failure; callers do not distinguish causes.
type Verifier interface {
	Verify(token string) (domain.UserID, error)
}

// Claims mirrors the payload issued at login: the subject is the user id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify parses the token with HS256 only, checks signature and expiration,
// and returns the subject.
func (v *JWTVerifier) Verify(tokenString string) (domain.UserID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.ErrInvalidToken
	}
	return domain.UserID(claims.Subject), nil
}

// GenerateToken signs a token for user valid for ttl.
func GenerateToken(secret string, user domain.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(user.ID),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
