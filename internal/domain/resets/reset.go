package resets

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Spok95/sitin-tracker/internal/domain/records"
	"github.com/Spok95/sitin-tracker/internal/domain/students"
)

type Type string

const (
	TypeStudent  Type = "student"
	TypeSemester Type = "semester"
)

var (
	ErrInvalidType    = errors.New("resets: unknown reset type")
	ErrMissingStudent = errors.New("resets: idNumber is required for a student reset")
	ErrMissingAdmin   = errors.New("resets: admin id is required")
)

type Request struct {
	Type     Type
	IDNumber string
	Semester string
	Year     int
	AdminID  string
}

type Details struct {
	IDNumber            string   `json:"idNumber,omitempty"`
	Semester            string   `json:"semester,omitempty"`
	From                string   `json:"from,omitempty"`
	To                  string   `json:"to,omitempty"`
	RecordsRemoved      int      `json:"recordsRemoved"`
	ReservationsRemoved int      `json:"reservationsRemoved"`
	WalkInsRemoved      int      `json:"walkInsRemoved"`
	StudentsRestored    []string `json:"studentsRestored"`
}

// Entry is the audit line written once per reset. It is never edited.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	AdminID   string    `json:"adminId"`
	ResetType Type      `json:"resetType"`
	Details   Details   `json:"details"`
}

// Plan is a validated reset: which records go and which students are
// restored. Building it mutates nothing.
type Plan struct {
	Request  Request
	Filter   records.Filter
	Remove   []records.Record
	Keep     []records.Record
	Affected []string
	details  Details
}

// NewPlan validates req against cal and partitions all into removed and kept
// records. A student reset with no records still restores that student.
func NewPlan(cal Calendar, req Request, all []records.Record) (Plan, error) {
	if strings.TrimSpace(req.AdminID) == "" {
		return Plan{}, ErrMissingAdmin
	}

	p := Plan{Request: req}
	switch req.Type {
	case TypeStudent:
		if strings.TrimSpace(req.IDNumber) == "" {
			return Plan{}, ErrMissingStudent
		}
		p.Filter = records.Filter{IDNumber: req.IDNumber}
		p.details.IDNumber = req.IDNumber
	case TypeSemester:
		sem, err := cal.Lookup(req.Semester)
		if err != nil {
			return Plan{}, err
		}
		from, to := sem.Range(req.Year)
		p.Filter = records.Filter{From: from, To: to}
		p.details.Semester = sem.Name
		p.details.From = from
		p.details.To = to
	default:
		return Plan{}, fmt.Errorf("%w: %q", ErrInvalidType, req.Type)
	}

	seen := map[string]bool{}
	if req.Type == TypeStudent {
		seen[req.IDNumber] = true
		p.Affected = append(p.Affected, req.IDNumber)
	}
	for _, r := range all {
		if !p.Filter.Match(r) {
			p.Keep = append(p.Keep, r)
			continue
		}
		p.Remove = append(p.Remove, r)
		if r.IsWalkIn {
			p.details.WalkInsRemoved++
		} else {
			p.details.ReservationsRemoved++
		}
		if !seen[r.IDNumber] {
			seen[r.IDNumber] = true
			p.Affected = append(p.Affected, r.IDNumber)
		}
	}
	p.details.RecordsRemoved = len(p.Remove)
	return p, nil
}

func (p Plan) RemoveIDs() []string {
	ids := make([]string, 0, len(p.Remove))
	for _, r := range p.Remove {
		ids = append(ids, r.ID)
	}
	return ids
}

// Restore puts a student back on the course baseline. Counters are rebuilt
// from the records that survive the reset and points start over.
func Restore(s *students.Student, policy students.QuotaPolicy, kept []records.Record, now time.Time) {
	s.RemainingSessions = policy.Baseline(s.Course)
	s.PendingReservations = 0
	s.CompletedSessions = 0
	for _, r := range kept {
		if r.IDNumber != s.IDNumber {
			continue
		}
		switch {
		case r.Status == records.StatusPending:
			s.PendingReservations++
		case r.Status.Finished():
			s.CompletedSessions++
		}
	}
	s.Points = 0
	s.UpdatedAt = now
}

// Entry builds the audit line; restored lists the students actually reset
// (ids in Affected that have no student row are skipped by the caller).
func (p Plan) Entry(restored []string, now time.Time) Entry {
	d := p.details
	d.StudentsRestored = append([]string{}, restored...)
	return Entry{
		ID:        uuid.NewString(),
		Timestamp: now,
		AdminID:   p.Request.AdminID,
		ResetType: p.Request.Type,
		Details:   d,
	}
}
