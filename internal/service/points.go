package service

import (
	"context"
	"errors"

	"github.com/Spok95/sitin-tracker/internal/domain/points"
	"github.com/Spok95/sitin-tracker/internal/domain/records"
	"github.com/Spok95/sitin-tracker/internal/infra/metrics"
	"github.com/Spok95/sitin-tracker/internal/storage"
)

// AddStudentPoints gives the student one point; every third point becomes an
// extra session.
func (s *Service) AddStudentPoints(ctx context.Context, idNumber string) (points.Result, error) {
	var res points.Result
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		st, err := tx.Students().Get(ctx, idNumber)
		if err != nil {
			return err
		}
		mine, err := tx.Records().List(ctx, records.Filter{IDNumber: idNumber})
		if err != nil {
			return err
		}
		res, err = points.Add(st, records.CountFinished(mine, idNumber))
		if err != nil {
			return err
		}
		st.UpdatedAt = s.now()
		return tx.Students().Update(ctx, st)
	})
	if err != nil {
		if errors.Is(err, points.ErrNoCompletedSessions) {
			metrics.Rejections.WithLabelValues("add-student-points", "no_completed_sessions").Inc()
		}
		s.reject("add-student-points", err)
		return points.Result{}, err
	}

	metrics.PointsAwarded.Inc()
	if res.Converted {
		metrics.PointConversions.Inc()
	}
	s.log.Info("point added", "op", "add-student-points", "idNumber", idNumber,
		"points", res.Points, "remainingSessions", res.RemainingSessions, "converted", res.Converted)
	return res, nil
}
