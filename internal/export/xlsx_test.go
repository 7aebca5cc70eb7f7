package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/sitin-tracker/internal/domain/records"
	"github.com/Spok95/sitin-tracker/internal/domain/students"
)

func TestWriteReport(t *testing.T) {
	in := time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC)
	recs := []records.Record{
		{ID: "r1", IDNumber: "2021-0001", Status: records.StatusCompleted, Date: "2025-03-10", Time: "09:00", IsWalkIn: true, TimeIn: &in, TimeOut: &in},
		{ID: "r2", IDNumber: "2021-0001", Status: records.StatusPending, Date: "2025-03-11", Time: "10:00"},
		{ID: "r3", IDNumber: "2021-0002", Status: records.StatusCompleted, Date: "2025-03-11", Time: "13:00"},
	}
	studs := []students.Student{{IDNumber: "2021-0001", FirstName: "Ana", LastName: "Reyes", Course: "BSIT", RemainingSessions: 29}}

	var buf bytes.Buffer
	if err := WriteReport(&buf, recs, studs, time.FixedZone("PHT", 8*3600)); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(RecordsSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("Records rows = %d, want 4", len(rows))
	}
	if rows[1][3] != "walk_in" || rows[1][10] != "2025-03-10 09:00" {
		t.Errorf("first record row = %v", rows[1])
	}

	summary, err := f.GetRows(SummarySheet)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"status", "count"},
		{"completed", "2"},
		{"pending", "1"},
		{"walk-ins", "1"},
		{"total", "3"},
	}
	if len(summary) != len(want) {
		t.Fatalf("Summary = %v", summary)
	}
	for i := range want {
		if summary[i][0] != want[i][0] || summary[i][1] != want[i][1] {
			t.Errorf("Summary row %d = %v, want %v", i, summary[i], want[i])
		}
	}

	st, err := f.GetRows(StudentsSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(st) != 2 || st[1][1] != "Ana Reyes" || st[1][4] != "29" {
		t.Errorf("Students = %v", st)
	}
}
