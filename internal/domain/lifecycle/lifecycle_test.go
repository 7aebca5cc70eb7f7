package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/Spok95/sitin-tracker/internal/domain/records"
	"github.com/Spok95/sitin-tracker/internal/domain/students"
)

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newPair(status records.Status, remaining, pending int) (*records.Record, *students.Student) {
	r := records.NewReservation("2021-0001", "2025-03-10", "09:00", records.Details{Purpose: "C", LabRoom: "524"}, now)
	r.Status = status
	s := &students.Student{IDNumber: "2021-0001", Course: "BSIT", RemainingSessions: remaining, PendingReservations: pending}
	return &r, s
}

func mustEngine(t *testing.T) Engine {
	t.Helper()
	e, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestNewRejectsNonFinishedTerminal(t *testing.T) {
	if _, err := New(records.StatusActive); !errors.Is(err, ErrUnknownTerminal) {
		t.Fatalf("New(active) err = %v, want ErrUnknownTerminal", err)
	}
	e, err := New(records.StatusPendingReview)
	if err != nil || e.Terminal != records.StatusPendingReview {
		t.Fatalf("New(pending_review) = %v, %v", e.Terminal, err)
	}
}

func TestApproveConsumesSession(t *testing.T) {
	e := mustEngine(t)
	r, s := newPair(records.StatusPending, 5, 1)

	changed, err := e.Transition(r, s, records.StatusApproved, now)
	if err != nil || !changed {
		t.Fatalf("Transition = %v, %v", changed, err)
	}
	if s.RemainingSessions != 4 {
		t.Errorf("RemainingSessions = %d, want 4", s.RemainingSessions)
	}
	if s.PendingReservations != 0 {
		t.Errorf("PendingReservations = %d, want 0", s.PendingReservations)
	}
	if r.Status != records.StatusApproved {
		t.Errorf("Status = %s, want approved", r.Status)
	}
}

func TestApproveWithNoQuotaChangesNothing(t *testing.T) {
	e := mustEngine(t)
	r, s := newPair(records.StatusPending, 0, 1)

	_, err := e.Transition(r, s, records.StatusApproved, now)
	if !errors.Is(err, ErrQuotaExhausted) {
		t.Fatalf("err = %v, want ErrQuotaExhausted", err)
	}
	if s.RemainingSessions != 0 || s.PendingReservations != 1 {
		t.Errorf("student changed: remaining=%d pending=%d", s.RemainingSessions, s.PendingReservations)
	}
	if r.Status != records.StatusPending {
		t.Errorf("Status = %s, want pending", r.Status)
	}
}

func TestRepeatedApproveIsNoop(t *testing.T) {
	e := mustEngine(t)
	r, s := newPair(records.StatusPending, 3, 1)
	if _, err := e.Transition(r, s, records.StatusApproved, now); err != nil {
		t.Fatal(err)
	}
	changed, err := e.Transition(r, s, records.StatusApproved, now)
	if err != nil || changed {
		t.Fatalf("second approve = %v, %v; want false, nil", changed, err)
	}
	if s.RemainingSessions != 2 {
		t.Errorf("RemainingSessions = %d, want 2", s.RemainingSessions)
	}
}

func TestRejectReleasesPending(t *testing.T) {
	e := mustEngine(t)
	r, s := newPair(records.StatusPending, 3, 1)
	if _, err := e.Transition(r, s, records.StatusRejected, now); err != nil {
		t.Fatal(err)
	}
	if s.PendingReservations != 0 || s.RemainingSessions != 3 {
		t.Errorf("pending=%d remaining=%d, want 0 and 3", s.PendingReservations, s.RemainingSessions)
	}
}

func TestInvalidTransitions(t *testing.T) {
	e := mustEngine(t)
	tests := []struct {
		from, to records.Status
	}{
		{records.StatusPending, records.StatusCompleted},
		{records.StatusPending, records.StatusActive},
		{records.StatusRejected, records.StatusApproved},
		{records.StatusRejected, records.StatusCompleted},
		{records.StatusApproved, records.StatusRejected},
		{records.StatusActive, records.StatusPending},
		{records.StatusPendingReview, records.StatusActive},
		{records.StatusPending, "bogus"},
	}
	for _, tt := range tests {
		r, s := newPair(tt.from, 3, 1)
		before := *s
		_, err := e.Transition(r, s, tt.to, now)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("%s -> %s: err = %v, want ErrInvalidTransition", tt.from, tt.to, err)
		}
		if *s != before {
			t.Errorf("%s -> %s: student modified", tt.from, tt.to)
		}
		if r.Status != tt.from {
			t.Errorf("%s -> %s: status = %s", tt.from, tt.to, r.Status)
		}
	}
}

func TestCompleteCountsOnce(t *testing.T) {
	e := mustEngine(t)
	r, s := newPair(records.StatusApproved, 3, 0)

	if _, err := e.Transition(r, s, records.StatusPendingReview, now); err != nil {
		t.Fatal(err)
	}
	later := now.Add(time.Hour)
	if _, err := e.Transition(r, s, records.StatusCompleted, later); err != nil {
		t.Fatal(err)
	}
	if s.CompletedSessions != 1 {
		t.Errorf("CompletedSessions = %d, want 1", s.CompletedSessions)
	}
	if r.CompletedAt == nil || !r.CompletedAt.Equal(now) {
		t.Errorf("CompletedAt = %v, want %v", r.CompletedAt, now)
	}
	if err := r.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestStartSetsTimeIn(t *testing.T) {
	e := mustEngine(t)
	r, s := newPair(records.StatusApproved, 3, 0)
	if _, err := e.Transition(r, s, records.StatusActive, now); err != nil {
		t.Fatal(err)
	}
	if r.TimeIn == nil || !r.TimeIn.Equal(now) {
		t.Errorf("TimeIn = %v, want %v", r.TimeIn, now)
	}
}

func TestWrongStudent(t *testing.T) {
	e := mustEngine(t)
	r, _ := newPair(records.StatusPending, 3, 1)
	other := &students.Student{IDNumber: "2021-0002", RemainingSessions: 3}
	if _, err := e.Transition(r, other, records.StatusApproved, now); !errors.Is(err, ErrWrongStudent) {
		t.Fatalf("err = %v, want ErrWrongStudent", err)
	}
}

func TestReserveAndWalkIn(t *testing.T) {
	e := mustEngine(t)

	r, s := newPair(records.StatusPending, 1, 0)
	if err := e.Reserve(r, s); err != nil {
		t.Fatal(err)
	}
	if s.PendingReservations != 1 || s.RemainingSessions != 1 {
		t.Errorf("after Reserve pending=%d remaining=%d", s.PendingReservations, s.RemainingSessions)
	}

	empty := &students.Student{IDNumber: "2021-0001"}
	if err := e.Reserve(r, empty); !errors.Is(err, ErrQuotaExhausted) {
		t.Errorf("Reserve with 0 remaining err = %v", err)
	}

	w := records.NewWalkIn("2021-0001", records.Details{Purpose: "Java", LabRoom: "526"}, now, time.UTC)
	if err := e.StartWalkIn(&w, s); err != nil {
		t.Fatal(err)
	}
	if s.RemainingSessions != 0 {
		t.Errorf("RemainingSessions = %d, want 0", s.RemainingSessions)
	}
	w2 := records.NewWalkIn("2021-0001", records.Details{Purpose: "Java", LabRoom: "526"}, now, time.UTC)
	if err := e.StartWalkIn(&w2, s); !errors.Is(err, ErrQuotaExhausted) {
		t.Errorf("second walk-in err = %v, want ErrQuotaExhausted", err)
	}
}

func TestExpired(t *testing.T) {
	w := records.NewWalkIn("2021-0001", records.Details{Purpose: "C", LabRoom: "524"}, now, time.UTC)
	if Expired(w, time.UTC, 2*time.Hour, now.Add(time.Hour)) {
		t.Error("expired after 1h, want not expired")
	}
	if !Expired(w, time.UTC, 2*time.Hour, now.Add(2*time.Hour)) {
		t.Error("not expired at deadline")
	}
	w.Status = records.StatusCompleted
	if Expired(w, time.UTC, 2*time.Hour, now.Add(5*time.Hour)) {
		t.Error("completed record reported expired")
	}
}
