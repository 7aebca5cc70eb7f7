package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Spok95/sitin-tracker/internal/domain/lifecycle"
	"github.com/Spok95/sitin-tracker/internal/domain/records"
	"github.com/Spok95/sitin-tracker/internal/domain/students"
	"github.com/Spok95/sitin-tracker/internal/infra/metrics"
	"github.com/Spok95/sitin-tracker/internal/storage"
)

type ReserveInput struct {
	Date string
	Time string
	records.Details
}

func (in ReserveInput) validate() error {
	if _, err := time.Parse(records.DateLayout, in.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	if _, err := time.Parse(records.TimeLayout, in.Time); err != nil {
		return fmt.Errorf("%w: time must be HH:MM", ErrInvalidInput)
	}
	return validateDetails(in.Details)
}

func validateDetails(d records.Details) error {
	if strings.TrimSpace(d.Purpose) == "" || strings.TrimSpace(d.LabRoom) == "" {
		return fmt.Errorf("%w: purpose and labRoom are required", ErrInvalidInput)
	}
	return nil
}

// Reserve queues a pending reservation for the student.
func (s *Service) Reserve(ctx context.Context, idNumber string, in ReserveInput) (*records.Record, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := s.now()
	rec := records.NewReservation(idNumber, in.Date, in.Time, in.Details, now)

	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		st, err := tx.Students().Get(ctx, idNumber)
		if err != nil {
			return err
		}
		mine, err := tx.Records().List(ctx, records.Filter{IDNumber: idNumber, From: in.Date, To: in.Date})
		if err != nil {
			return err
		}
		for _, r := range mine {
			if r.Time == in.Time && open(r.Status) {
				return ErrDuplicateSlot
			}
		}

		rec.StudentName = st.FullName()
		if err := s.engine.Reserve(&rec, st); err != nil {
			return err
		}
		st.UpdatedAt = now
		if err := tx.Records().Create(ctx, &rec); err != nil {
			return err
		}
		return tx.Students().Update(ctx, st)
	})
	if err != nil {
		s.reject("reserve", err)
		return nil, err
	}

	metrics.RecordsCreated.WithLabelValues(string(records.KindReservation)).Inc()
	s.log.Info("reservation created", "op", "reserve", "idNumber", idNumber, "recordId", rec.ID, "date", rec.Date, "time", rec.Time)
	s.notify(ctx, fmt.Sprintf("New reservation: %s (%s) %s %s, %s", rec.StudentName, rec.IDNumber, rec.Date, rec.Time, rec.LabRoom))
	return &rec, nil
}

// UpdateReservation moves a record to status to and adjusts the owner's
// counters in the same transaction.
func (s *Service) UpdateReservation(ctx context.Context, id string, to records.Status) (*records.Record, *students.Student, error) {
	if !to.Valid() {
		return nil, nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, to)
	}
	var (
		rec     *records.Record
		st      *students.Student
		from    records.Status
		changed bool
	)
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		if rec, err = tx.Records().Get(ctx, id); err != nil {
			return err
		}
		if st, err = tx.Students().Get(ctx, rec.IDNumber); err != nil {
			return err
		}
		from = rec.Status
		changed, err = s.engine.Transition(rec, st, to, s.now())
		if err != nil || !changed {
			return err
		}
		st.UpdatedAt = rec.UpdatedAt
		if err := tx.Records().Update(ctx, rec); err != nil {
			return err
		}
		return tx.Students().Update(ctx, st)
	})
	if err != nil {
		s.reject("update-reservation", err)
		s.log.Info("reservation update refused", "op", "update-reservation", "recordId", id, "to", to, "err", err)
		return nil, nil, err
	}

	if changed {
		metrics.Transitions.WithLabelValues(string(from), string(to)).Inc()
	}
	s.log.Info("reservation updated", "op", "update-reservation", "recordId", id, "idNumber", rec.IDNumber,
		"from", from, "to", to, "changed", changed, "remainingSessions", st.RemainingSessions)
	pub := st.Public()
	return rec, &pub, nil
}

type WalkInInput struct {
	IDNumber string
	records.Details
}

// CreateWalkIn seats a student without a reservation and charges one session.
func (s *Service) CreateWalkIn(ctx context.Context, in WalkInInput) (*records.Record, *students.Student, error) {
	if strings.TrimSpace(in.IDNumber) == "" {
		return nil, nil, fmt.Errorf("%w: idNumber is required", ErrInvalidInput)
	}
	if err := validateDetails(in.Details); err != nil {
		return nil, nil, err
	}
	now := s.now()
	rec := records.NewWalkIn(in.IDNumber, in.Details, now, s.loc)

	var st *students.Student
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		if st, err = tx.Students().Get(ctx, in.IDNumber); err != nil {
			return err
		}
		active, err := tx.Records().List(ctx, records.Filter{IDNumber: in.IDNumber, Status: records.StatusActive})
		if err != nil {
			return err
		}
		if len(active) > 0 {
			return ErrActiveSession
		}

		rec.StudentName = st.FullName()
		if err := s.engine.StartWalkIn(&rec, st); err != nil {
			return err
		}
		st.UpdatedAt = now
		if err := tx.Records().Create(ctx, &rec); err != nil {
			return err
		}
		return tx.Students().Update(ctx, st)
	})
	if err != nil {
		s.reject("create-walkin", err)
		return nil, nil, err
	}

	metrics.RecordsCreated.WithLabelValues(string(records.KindWalkIn)).Inc()
	s.log.Info("walk-in created", "op", "create-walkin", "idNumber", in.IDNumber, "recordId", rec.ID, "remainingSessions", st.RemainingSessions)
	pub := st.Public()
	return &rec, &pub, nil
}

func (s *Service) Record(ctx context.Context, id string) (*records.Record, error) {
	var rec *records.Record
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		rec, err = tx.Records().Get(ctx, id)
		return err
	})
	return rec, err
}

func (s *Service) Reservations(ctx context.Context, f records.Filter) ([]records.Record, error) {
	var out []records.Record
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		out, err = tx.Records().List(ctx, f)
		return err
	})
	return out, err
}

// AutoLogout closes every active session whose time is up. The completion
// time recorded is the deadline, not the moment the sweep ran.
func (s *Service) AutoLogout(ctx context.Context) (int, error) {
	now := s.now()
	closed := 0
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		active, err := tx.Records().List(ctx, records.Filter{Status: records.StatusActive})
		if err != nil {
			return err
		}
		touched := map[string]*students.Student{}
		for i := range active {
			rec := &active[i]
			if !lifecycle.Expired(*rec, s.loc, s.logoutAfter, now) {
				continue
			}
			st, ok := touched[rec.IDNumber]
			if !ok {
				st, err = tx.Students().Get(ctx, rec.IDNumber)
				if isNotFound(err) {
					s.log.Warn("auto-logout: record without student", "recordId", rec.ID, "idNumber", rec.IDNumber)
					continue
				}
				if err != nil {
					return err
				}
				touched[rec.IDNumber] = st
			}
			start, _ := rec.StartsAt(s.loc)
			if _, err := s.engine.Complete(rec, st, start.Add(s.logoutAfter)); err != nil {
				return err
			}
			if err := tx.Records().Update(ctx, rec); err != nil {
				return err
			}
			closed++
		}
		for _, st := range touched {
			st.UpdatedAt = now
			if err := tx.Students().Update(ctx, st); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if closed > 0 {
		metrics.AutoLogouts.Add(float64(closed))
		metrics.Transitions.WithLabelValues(string(records.StatusActive), string(s.engine.Terminal)).Add(float64(closed))
		s.log.Info("auto-logout", "op", "auto-logout", "closed", closed)
		s.notify(ctx, fmt.Sprintf("Auto-logout closed %d session(s)", closed))
	}
	return closed, nil
}

func open(st records.Status) bool {
	return st == records.StatusPending || st == records.StatusApproved || st == records.StatusActive
}

func isNotFound(err error) bool { return errors.Is(err, storage.ErrNotFound) }

// reject counts refusals that come from business rules, not I/O failures.
func (s *Service) reject(op string, err error) {
	var reason string
	switch {
	case errors.Is(err, lifecycle.ErrQuotaExhausted):
		reason = "quota_exhausted"
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		reason = "invalid_transition"
	case errors.Is(err, ErrDuplicateSlot):
		reason = "duplicate_slot"
	case errors.Is(err, ErrActiveSession):
		reason = "active_session"
	case errors.Is(err, storage.ErrNotFound):
		reason = "not_found"
	default:
		return
	}
	metrics.Rejections.WithLabelValues(op, reason).Inc()
}
