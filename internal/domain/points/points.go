package points

import (
	"errors"

	"github.com/Spok95/sitin-tracker/internal/domain/students"
)

// ConversionThreshold points are traded for one extra session.
const ConversionThreshold = 3

var ErrNoCompletedSessions = errors.New("points: student has no completed sessions")

type Result struct {
	IDNumber          string `json:"idNumber"`
	Points            int    `json:"points"`
	RemainingSessions int    `json:"remainingSessions"`
	Converted         bool   `json:"converted"`
}

// Add awards one point. finished is the number of the student's records that
// reached a finished status; with none the student is left untouched.
func Add(s *students.Student, finished int) (Result, error) {
	if finished <= 0 {
		return Result{}, ErrNoCompletedSessions
	}

	s.Points++
	converted := false
	if s.Points >= ConversionThreshold {
		s.Points = 0
		s.RemainingSessions++
		converted = true
	}

	return Result{
		IDNumber:          s.IDNumber,
		Points:            s.Points,
		RemainingSessions: s.RemainingSessions,
		Converted:         converted,
	}, nil
}
