package students

import (
	"errors"
	"testing"
)

func TestBaseline(t *testing.T) {
	p := DefaultQuotaPolicy()
	tests := []struct {
		course string
		want   int
	}{
		{"BSIT", 30},
		{"bscs", 30},
		{"B.S. I.T.", 30},
		{"BS Information Technology", 30},
		{"BSCpE", 30},
		{"BSN", 15},
		{"BS Accountancy", 15},
		{"", 15},
	}
	for _, tt := range tests {
		if got := p.Baseline(tt.course); got != tt.want {
			t.Errorf("Baseline(%q) = %d, want %d", tt.course, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	ok := Student{IDNumber: "2021-0001", RemainingSessions: 3, Points: 2}
	if err := ok.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	bad := []Student{
		{},
		{IDNumber: "x", RemainingSessions: -1},
		{IDNumber: "x", PendingReservations: -1},
		{IDNumber: "x", Points: 3},
	}
	for _, s := range bad {
		if err := s.Validate(); !errors.Is(err, ErrInvalid) {
			t.Errorf("Validate(%+v) = %v, want ErrInvalid", s, err)
		}
	}
}

func TestFullNameAndPublic(t *testing.T) {
	s := Student{FirstName: "Ana", MiddleName: "C", LastName: "Reyes", PasswordHash: "secret"}
	if got := s.FullName(); got != "Ana C Reyes" {
		t.Errorf("FullName = %q", got)
	}
	if p := s.Public(); p.PasswordHash != "" {
		t.Error("Public kept the password hash")
	}
	if s.PasswordHash == "" {
		t.Error("Public modified the receiver")
	}
}
