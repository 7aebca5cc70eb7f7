package records

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var ErrInvalid = errors.New("records: invalid record")

type Status string

const (
	StatusPending       Status = "pending"
	StatusApproved      Status = "approved"
	StatusRejected      Status = "rejected"
	StatusActive        Status = "active"
	StatusCompleted     Status = "completed"
	StatusPendingReview Status = "pending_review"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusActive, StatusCompleted, StatusPendingReview:
		return true
	}
	return false
}

// Finished reports whether the session was actually used: both completed and
// pending_review count as a finished sit-in.
func (s Status) Finished() bool {
	return s == StatusCompleted || s == StatusPendingReview
}

// Kind distinguishes the two record variants stored in the same collection.
type Kind string

const (
	KindReservation Kind = "reservation"
	KindWalkIn      Kind = "walk_in"
)

type Record struct {
	ID                  string     `json:"id"`
	IDNumber            string     `json:"idNumber"`
	StudentName         string     `json:"studentName,omitempty"`
	Status              Status     `json:"status"`
	Date                string     `json:"date"`
	Time                string     `json:"time"`
	IsWalkIn            bool       `json:"isWalkIn"`
	Purpose             string     `json:"purpose"`
	LabRoom             string     `json:"labRoom"`
	ProgrammingLanguage string     `json:"programmingLanguage,omitempty"`
	TimeIn              *time.Time `json:"timeIn,omitempty"`
	CompletedAt         *time.Time `json:"completedAt,omitempty"`
	TimeOut             *time.Time `json:"timeOut,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

func (r Record) Kind() Kind {
	if r.IsWalkIn {
		return KindWalkIn
	}
	return KindReservation
}

type Details struct {
	Purpose             string
	LabRoom             string
	ProgrammingLanguage string
}

// NewReservation builds a pending reservation for the given slot.
func NewReservation(idNumber, date, clock string, d Details, now time.Time) Record {
	return Record{
		ID:                  uuid.NewString(),
		IDNumber:            idNumber,
		Status:              StatusPending,
		Date:                date,
		Time:                clock,
		Purpose:             d.Purpose,
		LabRoom:             d.LabRoom,
		ProgrammingLanguage: d.ProgrammingLanguage,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// NewWalkIn builds a walk-in that is already sitting in; date and time are
// taken from now in loc.
func NewWalkIn(idNumber string, d Details, now time.Time, loc *time.Location) Record {
	local := now.In(loc)
	in := now
	return Record{
		ID:                  uuid.NewString(),
		IDNumber:            idNumber,
		Status:              StatusActive,
		Date:                local.Format(DateLayout),
		Time:                local.Format(TimeLayout),
		IsWalkIn:            true,
		Purpose:             d.Purpose,
		LabRoom:             d.LabRoom,
		ProgrammingLanguage: d.ProgrammingLanguage,
		TimeIn:              &in,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// StartsAt is the moment the sit-in began: the recorded time-in, or the
// scheduled slot when the student has not been timed in.
func (r Record) StartsAt(loc *time.Location) (time.Time, error) {
	if r.TimeIn != nil {
		return *r.TimeIn, nil
	}
	return time.ParseInLocation(DateLayout+" "+TimeLayout, r.Date+" "+r.Time, loc)
}

// Normalize fills what older files leave out: a finished record may carry
// only timeOut, and a walk-in or active record may lack timeIn, which is then
// taken from the scheduled slot in loc.
func (r Record) Normalize(loc *time.Location) Record {
	if r.CompletedAt == nil && r.TimeOut != nil {
		out := *r.TimeOut
		r.CompletedAt = &out
	}
	if r.TimeIn == nil && (r.IsWalkIn || r.Status == StatusActive) {
		if in, err := time.ParseInLocation(DateLayout+" "+TimeLayout, r.Date+" "+r.Time, loc); err == nil {
			r.TimeIn = &in
		}
	}
	return r
}

// Validate is applied whenever a record crosses the storage boundary.
func (r Record) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalid)
	}
	if strings.TrimSpace(r.IDNumber) == "" {
		return fmt.Errorf("%w: %s: idNumber is required", ErrInvalid, r.ID)
	}
	if !r.Status.Valid() {
		return fmt.Errorf("%w: %s: unknown status %q", ErrInvalid, r.ID, r.Status)
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return fmt.Errorf("%w: %s: date %q", ErrInvalid, r.ID, r.Date)
	}
	if _, err := time.Parse(TimeLayout, r.Time); err != nil {
		return fmt.Errorf("%w: %s: time %q", ErrInvalid, r.ID, r.Time)
	}
	if r.Status.Finished() && r.CompletedAt == nil {
		return fmt.Errorf("%w: %s: %s without completedAt", ErrInvalid, r.ID, r.Status)
	}

	switch r.Kind() {
	case KindWalkIn:
		switch r.Status {
		case StatusPending, StatusApproved, StatusRejected:
			return fmt.Errorf("%w: %s: walk-in cannot be %s", ErrInvalid, r.ID, r.Status)
		}
		if r.TimeIn == nil {
			return fmt.Errorf("%w: %s: walk-in without timeIn", ErrInvalid, r.ID)
		}
	case KindReservation:
		if r.Status == StatusActive && r.TimeIn == nil {
			return fmt.Errorf("%w: %s: active reservation without timeIn", ErrInvalid, r.ID)
		}
	}
	return nil
}

// Filter selects records; zero fields match everything. From and To are
// inclusive YYYY-MM-DD bounds on Date.
type Filter struct {
	IDNumber string
	Status   Status
	WalkIn   *bool
	From     string
	To       string
}

func (f Filter) Match(r Record) bool {
	if f.IDNumber != "" && r.IDNumber != f.IDNumber {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.WalkIn != nil && r.IsWalkIn != *f.WalkIn {
		return false
	}
	// YYYY-MM-DD compares correctly as a string.
	if f.From != "" && r.Date < f.From {
		return false
	}
	if f.To != "" && r.Date > f.To {
		return false
	}
	return true
}

func Select(rs []Record, f Filter) []Record {
	out := make([]Record, 0, len(rs))
	for _, r := range rs {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// CountFinished counts the records of one student that reached a finished
// status.
func CountFinished(rs []Record, idNumber string) int {
	n := 0
	for _, r := range rs {
		if r.IDNumber == idNumber && r.Status.Finished() {
			n++
		}
	}
	return n
}
