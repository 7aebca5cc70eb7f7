package records

import (
	"errors"
	"testing"
	"time"
)

var now = time.Date(2025, 3, 10, 1, 30, 0, 0, time.UTC)

func TestNewWalkInUsesLocalClock(t *testing.T) {
	manila := time.FixedZone("PHT", 8*3600)
	r := NewWalkIn("2021-0001", Details{Purpose: "C", LabRoom: "524"}, now, manila)
	if r.Date != "2025-03-10" || r.Time != "09:30" {
		t.Errorf("slot = %s %s, want 2025-03-10 09:30", r.Date, r.Time)
	}
	if r.Status != StatusActive || !r.IsWalkIn || r.Kind() != KindWalkIn {
		t.Errorf("walk-in = %+v", r)
	}
	if err := r.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	done := now
	good := NewReservation("2021-0001", "2025-03-10", "09:00", Details{Purpose: "C", LabRoom: "524"}, now)
	if err := good.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	tests := []struct {
		name string
		edit func(r *Record)
	}{
		{"no id", func(r *Record) { r.ID = "" }},
		{"no student", func(r *Record) { r.IDNumber = " " }},
		{"unknown status", func(r *Record) { r.Status = "cancelled" }},
		{"bad date", func(r *Record) { r.Date = "10/03/2025" }},
		{"bad time", func(r *Record) { r.Time = "9am" }},
		{"completed without completedAt", func(r *Record) { r.Status = StatusCompleted }},
		{"pending walk-in", func(r *Record) { r.IsWalkIn = true; r.TimeIn = &done }},
		{"walk-in without timeIn", func(r *Record) { r.IsWalkIn = true; r.Status = StatusActive }},
		{"active reservation without timeIn", func(r *Record) { r.Status = StatusActive }},
	}
	for _, tt := range tests {
		r := good
		tt.edit(&r)
		if err := r.Validate(); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: err = %v, want ErrInvalid", tt.name, err)
		}
	}
}

func TestFilter(t *testing.T) {
	in := NewWalkIn("a", Details{}, now, time.UTC)
	rs := []Record{
		{ID: "1", IDNumber: "a", Date: "2025-01-05", Status: StatusPending},
		{ID: "2", IDNumber: "b", Date: "2025-02-05", Status: StatusCompleted},
		{ID: "3", IDNumber: "a", Date: "2025-03-05", Status: StatusCompleted, IsWalkIn: true},
		in,
	}
	walk := true
	tests := []struct {
		name string
		f    Filter
		want int
	}{
		{"all", Filter{}, 4},
		{"student", Filter{IDNumber: "a"}, 3},
		{"status", Filter{Status: StatusCompleted}, 2},
		{"walk-ins", Filter{WalkIn: &walk}, 2},
		{"range", Filter{From: "2025-02-01", To: "2025-03-05"}, 2},
		{"inclusive bounds", Filter{From: "2025-01-05", To: "2025-01-05"}, 1},
	}
	for _, tt := range tests {
		if got := len(Select(rs, tt.f)); got != tt.want {
			t.Errorf("%s: got %d records, want %d", tt.name, got, tt.want)
		}
	}
}

func TestCountFinished(t *testing.T) {
	rs := []Record{
		{IDNumber: "a", Status: StatusCompleted},
		{IDNumber: "a", Status: StatusPendingReview},
		{IDNumber: "a", Status: StatusApproved},
		{IDNumber: "b", Status: StatusCompleted},
	}
	if got := CountFinished(rs, "a"); got != 2 {
		t.Errorf("CountFinished = %d, want 2", got)
	}
}

func TestNormalize(t *testing.T) {
	manila := time.FixedZone("PHT", 8*3600)
	out := now

	done := Record{ID: "r2", IDNumber: "2021-0002", Status: StatusCompleted, Date: "2025-03-07", Time: "13:00", TimeOut: &out}
	got := done.Normalize(manila)
	if got.CompletedAt == nil || !got.CompletedAt.Equal(out) {
		t.Errorf("completedAt = %v, want %v", got.CompletedAt, out)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("Validate after Normalize: %v", err)
	}

	walkIn := Record{ID: "r1", IDNumber: "2021-0001", Status: StatusActive, IsWalkIn: true, Date: "2025-03-10", Time: "08:00"}
	got = walkIn.Normalize(manila)
	if got.TimeIn == nil || !got.TimeIn.Equal(time.Date(2025, 3, 10, 8, 0, 0, 0, manila)) {
		t.Errorf("timeIn = %v", got.TimeIn)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("Validate after Normalize: %v", err)
	}

	pending := NewReservation("2021-0001", "2025-03-10", "09:00", Details{Purpose: "C", LabRoom: "524"}, now)
	if got := pending.Normalize(manila); got.TimeIn != nil || got.CompletedAt != nil {
		t.Errorf("pending reservation gained timestamps: %+v", got)
	}
}
