package export

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/sitin-tracker/internal/domain/records"
	"github.com/Spok95/sitin-tracker/internal/domain/students"
)

const (
	RecordsSheet  = "Records"
	SummarySheet  = "Summary"
	StudentsSheet = "Students"
)

var recordHeader = []interface{}{
	"id", "idNumber", "studentName", "kind", "status", "date", "time",
	"labRoom", "purpose", "programmingLanguage", "timeIn", "timeOut",
}

var studentHeader = []interface{}{
	"idNumber", "name", "course", "yearLevel",
	"remainingSessions", "pendingReservations", "completedSessions", "points",
}

// WriteReport writes an XLSX workbook with the records, per-status totals and
// the student counters. Times are rendered in loc.
func WriteReport(w io.Writer, recs []records.Record, studs []students.Student, loc *time.Location) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), RecordsSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(RecordsSheet, "A1", &recordHeader); err != nil {
		return fmt.Errorf("records header: %w", err)
	}
	for i, r := range recs {
		row := []interface{}{
			r.ID, r.IDNumber, r.StudentName, string(r.Kind()), string(r.Status), r.Date, r.Time,
			r.LabRoom, r.Purpose, r.ProgrammingLanguage, stamp(r.TimeIn, loc), stamp(r.TimeOut, loc),
		}
		if err := f.SetSheetRow(RecordsSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return fmt.Errorf("records row %d: %w", i+2, err)
		}
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return err
	}
	counts := map[records.Status]int{}
	walkIns := 0
	for _, r := range recs {
		counts[r.Status]++
		if r.IsWalkIn {
			walkIns++
		}
	}
	statuses := make([]string, 0, len(counts))
	for st := range counts {
		statuses = append(statuses, string(st))
	}
	sort.Strings(statuses)

	summary := [][]interface{}{{"status", "count"}}
	for _, st := range statuses {
		summary = append(summary, []interface{}{st, counts[records.Status(st)]})
	}
	summary = append(summary,
		[]interface{}{"walk-ins", walkIns},
		[]interface{}{"total", len(recs)},
	)
	for i := range summary {
		if err := f.SetSheetRow(SummarySheet, fmt.Sprintf("A%d", i+1), &summary[i]); err != nil {
			return fmt.Errorf("summary row %d: %w", i+1, err)
		}
	}

	if _, err := f.NewSheet(StudentsSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(StudentsSheet, "A1", &studentHeader); err != nil {
		return fmt.Errorf("students header: %w", err)
	}
	for i, s := range studs {
		row := []interface{}{
			s.IDNumber, s.FullName(), s.Course, s.YearLevel,
			s.RemainingSessions, s.PendingReservations, s.CompletedSessions, s.Points,
		}
		if err := f.SetSheetRow(StudentsSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return fmt.Errorf("students row %d: %w", i+2, err)
		}
	}

	_, err := f.WriteTo(w)
	return err
}

func stamp(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format("2006-01-02 15:04")
}
