package resets

import (
	"errors"
	"testing"
	"time"

	"github.com/Spok95/sitin-tracker/internal/domain/records"
	"github.com/Spok95/sitin-tracker/internal/domain/students"
)

var now = time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

func testCalendar(t *testing.T) Calendar {
	t.Helper()
	var sems []Semester
	for _, s := range [][3]string{
		{"First Semester", "08-01", "12-31"},
		{"Second Semester", "01-01", "05-31"},
		{"Midyear", "11-15", "01-31"},
	} {
		sem, err := NewSemester(s[0], s[1], s[2])
		if err != nil {
			t.Fatalf("NewSemester(%s): %v", s[0], err)
		}
		sems = append(sems, sem)
	}
	return NewCalendar(sems...)
}

func rec(id, idNumber, date string, walkIn bool, status records.Status) records.Record {
	return records.Record{ID: id, IDNumber: idNumber, Date: date, Time: "09:00", IsWalkIn: walkIn, Status: status}
}

func TestSemesterRange(t *testing.T) {
	cal := testCalendar(t)
	tests := []struct {
		name     string
		year     int
		from, to string
	}{
		{"first semester", 2024, "2024-08-01", "2024-12-31"},
		{"Second Semester", 2025, "2025-01-01", "2025-05-31"},
		{"midyear", 2024, "2024-11-15", "2025-01-31"},
	}
	for _, tt := range tests {
		sem, err := cal.Lookup(tt.name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", tt.name, err)
		}
		from, to := sem.Range(tt.year)
		if from != tt.from || to != tt.to {
			t.Errorf("%s %d = %s..%s, want %s..%s", tt.name, tt.year, from, to, tt.from, tt.to)
		}
	}
}

func TestUnknownSemester(t *testing.T) {
	_, err := NewPlan(testCalendar(t), Request{Type: TypeSemester, Semester: "Summer", Year: 2025, AdminID: "admin"}, nil)
	if !errors.Is(err, ErrInvalidSemester) {
		t.Fatalf("err = %v, want ErrInvalidSemester", err)
	}
}

func TestPlanValidation(t *testing.T) {
	cal := testCalendar(t)
	if _, err := NewPlan(cal, Request{Type: TypeStudent, IDNumber: "x"}, nil); !errors.Is(err, ErrMissingAdmin) {
		t.Errorf("no admin: err = %v", err)
	}
	if _, err := NewPlan(cal, Request{Type: TypeStudent, AdminID: "admin"}, nil); !errors.Is(err, ErrMissingStudent) {
		t.Errorf("no student: err = %v", err)
	}
	if _, err := NewPlan(cal, Request{Type: "all", AdminID: "admin"}, nil); !errors.Is(err, ErrInvalidType) {
		t.Errorf("bad type: err = %v", err)
	}
}

func TestSemesterPlanPartitions(t *testing.T) {
	all := []records.Record{
		rec("a", "s1", "2025-02-01", false, records.StatusCompleted),
		rec("b", "s2", "2025-03-01", true, records.StatusCompleted),
		rec("c", "s1", "2025-06-10", false, records.StatusPending),
		rec("d", "s3", "2024-12-20", false, records.StatusCompleted),
	}
	p, err := NewPlan(testCalendar(t), Request{Type: TypeSemester, Semester: "Second Semester", Year: 2025, AdminID: "admin"}, all)
	if err != nil {
		t.Fatal(err)
	}
	if got := p.RemoveIDs(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("RemoveIDs = %v, want [a b]", got)
	}
	if len(p.Keep) != 2 {
		t.Errorf("len(Keep) = %d, want 2", len(p.Keep))
	}
	if len(p.Affected) != 2 || p.Affected[0] != "s1" || p.Affected[1] != "s2" {
		t.Errorf("Affected = %v, want [s1 s2]", p.Affected)
	}

	e := p.Entry([]string{"s1", "s2"}, now)
	if e.ResetType != TypeSemester || e.AdminID != "admin" {
		t.Errorf("entry = %+v", e)
	}
	if e.Details.RecordsRemoved != 2 || e.Details.ReservationsRemoved != 1 || e.Details.WalkInsRemoved != 1 {
		t.Errorf("details = %+v", e.Details)
	}
	if e.Details.From != "2025-01-01" || e.Details.To != "2025-05-31" {
		t.Errorf("range = %s..%s", e.Details.From, e.Details.To)
	}
}

func TestStudentPlanAlwaysAffectsStudent(t *testing.T) {
	p, err := NewPlan(testCalendar(t), Request{Type: TypeStudent, IDNumber: "s9", AdminID: "admin"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Affected) != 1 || p.Affected[0] != "s9" {
		t.Errorf("Affected = %v, want [s9]", p.Affected)
	}
}

func TestRestore(t *testing.T) {
	policy := students.DefaultQuotaPolicy()
	kept := []records.Record{
		rec("c", "s1", "2025-06-10", false, records.StatusPending),
		rec("e", "s1", "2025-06-11", false, records.StatusCompleted),
		rec("f", "s2", "2025-06-11", false, records.StatusPending),
	}

	it := &students.Student{IDNumber: "s1", Course: "BSIT", RemainingSessions: 2, Points: 2, CompletedSessions: 9}
	Restore(it, policy, kept, now)
	if it.RemainingSessions != 30 {
		t.Errorf("BSIT RemainingSessions = %d, want 30", it.RemainingSessions)
	}
	if it.PendingReservations != 1 || it.CompletedSessions != 1 || it.Points != 0 {
		t.Errorf("counters = pending %d completed %d points %d", it.PendingReservations, it.CompletedSessions, it.Points)
	}

	nurse := &students.Student{IDNumber: "s3", Course: "BSN", RemainingSessions: 0}
	Restore(nurse, policy, kept, now)
	if nurse.RemainingSessions != 15 {
		t.Errorf("BSN RemainingSessions = %d, want 15", nurse.RemainingSessions)
	}
}
