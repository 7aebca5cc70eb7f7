package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrInvalidSession     = errors.New("auth: invalid session")
	ErrWeakPassword       = errors.New("auth: password must be at least 6 characters")
)

// Identity is who the session cookie says is calling.
type Identity struct {
	Subject string `json:"id"`
	Role    Role   `json:"role"`
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Sessions issues and checks the signed token carried in the session cookie.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessions(secret string, ttl time.Duration) *Sessions {
	return &Sessions{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *Sessions) TTL() time.Duration { return s.ttl }

func (s *Sessions) Issue(id Identity) (string, error) {
	now := s.now()
	claims := Claims{
		Role: string(id.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Sessions) Parse(tokenStr string) (Identity, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid || c.Subject == "" {
		return Identity{}, ErrInvalidSession
	}
	role := Role(c.Role)
	if role != RoleAdmin && role != RoleStudent {
		return Identity{}, ErrInvalidSession
	}
	return Identity{Subject: c.Subject, Role: role}, nil
}

func HashPassword(pw string) (string, error) {
	if len(pw) < 6 {
		return "", ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, pw string) error {
	if hash == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}
