package students

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalid = errors.New("students: invalid student")

type Student struct {
	IDNumber   string `json:"idNumber"`
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName,omitempty"`
	LastName   string `json:"lastName"`
	Course     string `json:"course"`
	YearLevel  int    `json:"yearLevel"`
	Email      string `json:"email,omitempty"`

	PasswordHash string `json:"passwordHash,omitempty"`

	RemainingSessions   int `json:"remainingSessions"`
	PendingReservations int `json:"pendingReservations"`
	CompletedSessions   int `json:"completedSessions"`
	Points              int `json:"points"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s Student) FullName() string {
	parts := []string{s.FirstName}
	if s.MiddleName != "" {
		parts = append(parts, s.MiddleName)
	}
	parts = append(parts, s.LastName)
	return strings.TrimSpace(strings.Join(parts, " "))
}

// Public drops the password hash before the student leaves the server.
func (s Student) Public() Student {
	s.PasswordHash = ""
	return s
}

func (s Student) Validate() error {
	switch {
	case strings.TrimSpace(s.IDNumber) == "":
		return fmt.Errorf("%w: idNumber is required", ErrInvalid)
	case s.RemainingSessions < 0:
		return fmt.Errorf("%w: remainingSessions is negative", ErrInvalid)
	case s.PendingReservations < 0:
		return fmt.Errorf("%w: pendingReservations is negative", ErrInvalid)
	case s.Points < 0 || s.Points > 2:
		return fmt.Errorf("%w: points out of range", ErrInvalid)
	}
	return nil
}
