// Package lifecycle moves sit-in records between statuses and keeps the
// owning student's counters in step with every move.
//
// Functions here never touch storage; callers load the record and the
// student, apply a transition, and persist both only when it succeeds.
package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"github.com/Spok95/sitin-tracker/internal/domain/records"
	"github.com/Spok95/sitin-tracker/internal/domain/students"
)

var (
	ErrQuotaExhausted    = errors.New("lifecycle: no remaining sessions")
	ErrInvalidTransition = errors.New("lifecycle: invalid status transition")
	ErrWrongStudent      = errors.New("lifecycle: record belongs to another student")
	ErrUnknownTerminal   = errors.New("lifecycle: terminal status must be completed or pending_review")
)

type Engine struct {
	// Terminal is where a finished session lands when nobody asks for a
	// specific status: the auto-logout sweep and the "complete" action.
	Terminal records.Status
}

func New(terminal records.Status) (Engine, error) {
	if terminal == "" {
		terminal = records.StatusCompleted
	}
	if !terminal.Finished() {
		return Engine{}, fmt.Errorf("%w: %q", ErrUnknownTerminal, terminal)
	}
	return Engine{Terminal: terminal}, nil
}

// Reserve books a pending reservation against the student. The quota is only
// consumed on approval, but a student with nothing left cannot queue up.
func (e Engine) Reserve(r *records.Record, s *students.Student) error {
	if err := sameStudent(r, s); err != nil {
		return err
	}
	if r.Status != records.StatusPending || r.IsWalkIn {
		return fmt.Errorf("%w: new reservation must be pending", ErrInvalidTransition)
	}
	if s.RemainingSessions <= 0 {
		return ErrQuotaExhausted
	}
	s.PendingReservations++
	return nil
}

// StartWalkIn seats a walk-in immediately and consumes one session.
func (e Engine) StartWalkIn(r *records.Record, s *students.Student) error {
	if err := sameStudent(r, s); err != nil {
		return err
	}
	if r.Status != records.StatusActive || !r.IsWalkIn {
		return fmt.Errorf("%w: walk-in must start active", ErrInvalidTransition)
	}
	if s.RemainingSessions <= 0 {
		return ErrQuotaExhausted
	}
	s.RemainingSessions--
	return nil
}

// Transition applies r -> to. A transition to the status the record already
// has is accepted and reported as unchanged; counters are not touched again.
// On error neither r nor s is modified.
func (e Engine) Transition(r *records.Record, s *students.Student, to records.Status, now time.Time) (bool, error) {
	if err := sameStudent(r, s); err != nil {
		return false, err
	}
	if !to.Valid() {
		return false, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	from := r.Status
	if from == to {
		return false, nil
	}

	switch to {
	case records.StatusApproved:
		if from != records.StatusPending {
			return false, invalid(from, to)
		}
		if s.RemainingSessions <= 0 {
			return false, ErrQuotaExhausted
		}
		s.RemainingSessions--
		decPending(s)

	case records.StatusRejected:
		if from != records.StatusPending {
			return false, invalid(from, to)
		}
		decPending(s)

	case records.StatusActive:
		if from != records.StatusApproved {
			return false, invalid(from, to)
		}
		in := now
		r.TimeIn = &in

	case records.StatusCompleted:
		switch from {
		case records.StatusApproved, records.StatusActive, records.StatusPendingReview:
		default:
			return false, invalid(from, to)
		}
		finish(r, s, now)

	case records.StatusPendingReview:
		switch from {
		case records.StatusApproved, records.StatusActive:
		default:
			return false, invalid(from, to)
		}
		finish(r, s, now)

	default:
		return false, invalid(from, to)
	}

	r.Status = to
	r.UpdatedAt = now
	return true, nil
}

// Complete finishes a session into the engine's terminal status.
func (e Engine) Complete(r *records.Record, s *students.Student, now time.Time) (bool, error) {
	return e.Transition(r, s, e.Terminal, now)
}

// Expired reports whether an active record has outlived its session length.
func Expired(r records.Record, loc *time.Location, after time.Duration, now time.Time) bool {
	if r.Status != records.StatusActive {
		return false
	}
	start, err := r.StartsAt(loc)
	if err != nil {
		return false
	}
	return !now.Before(start.Add(after))
}

// finish stamps completion once; a record that was already counted (moving
// from pending_review to completed) keeps its original timestamps.
func finish(r *records.Record, s *students.Student, now time.Time) {
	if r.CompletedAt != nil {
		return
	}
	at := now
	r.CompletedAt = &at
	r.TimeOut = &at
	s.CompletedSessions++
}

func decPending(s *students.Student) {
	if s.PendingReservations > 0 {
		s.PendingReservations--
	}
}

func sameStudent(r *records.Record, s *students.Student) error {
	if r.IDNumber != s.IDNumber {
		return fmt.Errorf("%w: record %s owned by %s", ErrWrongStudent, r.ID, r.IDNumber)
	}
	return nil
}

func invalid(from, to records.Status) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
