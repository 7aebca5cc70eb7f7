package service

import (
	"context"
	"io"

	"github.com/Spok95/sitin-tracker/internal/domain/records"
	"github.com/Spok95/sitin-tracker/internal/domain/students"
	"github.com/Spok95/sitin-tracker/internal/export"
	"github.com/Spok95/sitin-tracker/internal/storage"
)

// WriteReport exports the records matching f, with the student counters, as
// an XLSX workbook.
func (s *Service) WriteReport(ctx context.Context, w io.Writer, f records.Filter) error {
	var (
		recs  []records.Record
		studs []students.Student
	)
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		if recs, err = tx.Records().List(ctx, f); err != nil {
			return err
		}
		studs, err = tx.Students().List(ctx)
		return err
	})
	if err != nil {
		return err
	}
	return export.WriteReport(w, recs, studs, s.loc)
}
