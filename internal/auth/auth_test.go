package auth

import (
	"errors"
	"testing"
	"time"
)

func TestSessionRoundTrip(t *testing.T) {
	s := NewSessions("test-secret", time.Hour)
	tok, err := s.Issue(Identity{Subject: "2021-0001", Role: RoleStudent})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	id, err := s.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if id.Subject != "2021-0001" || id.Role != RoleStudent || id.IsAdmin() {
		t.Errorf("identity = %+v", id)
	}
}

func TestSessionRejects(t *testing.T) {
	s := NewSessions("test-secret", time.Hour)
	tok, err := s.Issue(Identity{Subject: "admin", Role: RoleAdmin})
	if err != nil {
		t.Fatal(err)
	}

	other := NewSessions("other-secret", time.Hour)
	if _, err := other.Parse(tok); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("wrong secret: err = %v", err)
	}

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := s.Parse(tok); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("expired: err = %v", err)
	}

	if _, err := s.Parse("not-a-token"); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("garbage: err = %v", err)
	}
}

func TestPasswords(t *testing.T) {
	if _, err := HashPassword("12345"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("short password: err = %v", err)
	}
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatal(err)
	}
	if err := CheckPassword(hash, "secret1"); err != nil {
		t.Errorf("CheckPassword(correct) = %v", err)
	}
	if err := CheckPassword(hash, "secret2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("CheckPassword(wrong) = %v", err)
	}
	if err := CheckPassword("", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("CheckPassword(no hash) = %v", err)
	}
}
