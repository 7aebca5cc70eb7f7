package resets

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Spok95/sitin-tracker/internal/domain/records"
)

var ErrInvalidSemester = errors.New("resets: unknown semester")

type monthDay struct {
	month time.Month
	day   int
}

func parseMonthDay(s string) (monthDay, error) {
	t, err := time.Parse("01-02", strings.TrimSpace(s))
	if err != nil {
		return monthDay{}, fmt.Errorf("resets: bad month-day %q: %w", s, err)
	}
	return monthDay{month: t.Month(), day: t.Day()}, nil
}

func (md monthDay) before(o monthDay) bool {
	if md.month != o.month {
		return md.month < o.month
	}
	return md.day < o.day
}

type Semester struct {
	Name  string
	start monthDay
	end   monthDay
}

func NewSemester(name, start, end string) (Semester, error) {
	if strings.TrimSpace(name) == "" {
		return Semester{}, errors.New("resets: semester name is required")
	}
	s, err := parseMonthDay(start)
	if err != nil {
		return Semester{}, err
	}
	e, err := parseMonthDay(end)
	if err != nil {
		return Semester{}, err
	}
	return Semester{Name: name, start: s, end: e}, nil
}

// Range returns the inclusive YYYY-MM-DD bounds of the semester that starts
// in year. A semester whose end month-day precedes its start (e.g. Aug–Jan)
// ends in the following year.
func (s Semester) Range(year int) (from, to string) {
	endYear := year
	if s.end.before(s.start) {
		endYear++
	}
	f := time.Date(year, s.start.month, s.start.day, 0, 0, 0, 0, time.UTC)
	t := time.Date(endYear, s.end.month, s.end.day, 0, 0, 0, 0, time.UTC)
	return f.Format(records.DateLayout), t.Format(records.DateLayout)
}

// Calendar is the set of semesters a reset may name.
type Calendar struct {
	semesters []Semester
}

func NewCalendar(semesters ...Semester) Calendar {
	return Calendar{semesters: semesters}
}

// Lookup matches names case-insensitively.
func (c Calendar) Lookup(name string) (Semester, error) {
	n := strings.TrimSpace(name)
	for _, s := range c.semesters {
		if strings.EqualFold(s.Name, n) {
			return s, nil
		}
	}
	return Semester{}, fmt.Errorf("%w: %q", ErrInvalidSemester, name)
}

func (c Calendar) Names() []string {
	out := make([]string, 0, len(c.semesters))
	for _, s := range c.semesters {
		out = append(out, s.Name)
	}
	return out
}
