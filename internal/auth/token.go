package auth

import (
	"errors"
	"fmt"
	"jobify-api/internal/entity"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type claims struct {
	UserId string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 access tokens carrying the caller's id and role.
type Tokens struct {
	secret   []byte
	duration time.Duration
}

func NewTokens(secret string, duration time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), duration: duration}
}

func (t *Tokens) Issue(p entity.Principal) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserId: p.UserId.String(),
		Role:   string(p.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.duration)),
		},
	})

	return token.SignedString(t.secret)
}

func (t *Tokens) Verify(tokenString string) (entity.Principal, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return entity.Principal{}, ErrInvalidToken
	}

	id, err := uuid.Parse(c.UserId)
	if err != nil {
		return entity.Principal{}, ErrInvalidToken
	}
	role := entity.Role(c.Role)
	if !role.Valid() {
		return entity.Principal{}, ErrInvalidToken
	}

	return entity.Principal{UserId: id, Role: role}, nil
}
