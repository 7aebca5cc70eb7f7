package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Spok95/sitin-tracker/internal/domain/records"
	"github.com/Spok95/sitin-tracker/internal/domain/resets"
	"github.com/Spok95/sitin-tracker/internal/infra/metrics"
	"github.com/Spok95/sitin-tracker/internal/storage"
)

// ResetSessions clears records for one student or one semester and puts the
// affected students back on their baseline quota. It cannot be undone.
func (s *Service) ResetSessions(ctx context.Context, req resets.Request) (*resets.Entry, error) {
	now := s.now()
	if req.Type == resets.TypeSemester && req.Year == 0 {
		req.Year = s.latestYear(req.Semester)
	}

	var entry resets.Entry
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		all, err := tx.Records().List(ctx, records.Filter{})
		if err != nil {
			return err
		}
		plan, err := resets.NewPlan(s.calendar, req, all)
		if err != nil {
			return err
		}

		if req.Type == resets.TypeStudent {
			// a student reset must name someone who exists
			if _, err := tx.Students().Get(ctx, req.IDNumber); err != nil {
				return err
			}
		}
		if _, err := tx.Records().Delete(ctx, plan.RemoveIDs()); err != nil {
			return err
		}

		restored := make([]string, 0, len(plan.Affected))
		for _, id := range plan.Affected {
			st, err := tx.Students().Get(ctx, id)
			if isNotFound(err) {
				continue
			}
			if err != nil {
				return err
			}
			resets.Restore(st, s.quota, plan.Keep, now)
			if err := tx.Students().Update(ctx, st); err != nil {
				return err
			}
			restored = append(restored, id)
		}

		entry = plan.Entry(restored, now)
		return tx.ResetLogs().Append(ctx, &entry)
	})
	if err != nil {
		if errors.Is(err, resets.ErrInvalidSemester) {
			metrics.Rejections.WithLabelValues("reset-sessions", "invalid_semester").Inc()
		}
		s.log.Warn("reset refused", "op", "reset-sessions", "type", req.Type, "adminId", req.AdminID, "err", err)
		return nil, err
	}

	metrics.Resets.WithLabelValues(string(entry.ResetType)).Inc()
	metrics.RecordsRemoved.Add(float64(entry.Details.RecordsRemoved))
	s.log.Info("sessions reset", "op", "reset-sessions", "type", entry.ResetType, "adminId", entry.AdminID,
		"recordsRemoved", entry.Details.RecordsRemoved, "studentsRestored", len(entry.Details.StudentsRestored))
	s.notify(ctx, fmt.Sprintf("Reset (%s) by %s: %d record(s) removed, %d student(s) restored",
		entry.ResetType, entry.AdminID, entry.Details.RecordsRemoved, len(entry.Details.StudentsRestored)))
	return &entry, nil
}

// latestYear picks the most recent occurrence of the semester that has
// already started. Unknown names fall through to the plan's validation.
func (s *Service) latestYear(name string) int {
	today := s.now().In(s.loc)
	y := today.Year()
	sem, err := s.calendar.Lookup(name)
	if err != nil {
		return y
	}
	if from, _ := sem.Range(y); from > today.Format(records.DateLayout) {
		y--
	}
	return y
}

func (s *Service) ResetLogs(ctx context.Context) ([]resets.Entry, error) {
	var out []resets.Entry
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		out, err = tx.ResetLogs().List(ctx)
		return err
	})
	return out, err
}

func (s *Service) Semesters() []string { return s.calendar.Names() }
