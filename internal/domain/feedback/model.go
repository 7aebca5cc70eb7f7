package feedback

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrRating       = errors.New("feedback: rating must be between 1 and 5")
	ErrAlreadyGiven = errors.New("feedback: already submitted for this session")
	ErrNotFinished  = errors.New("feedback: session is not finished")
)

type Feedback struct {
	ID        string    `json:"id"`
	RecordID  string    `json:"recordId"`
	IDNumber  string    `json:"idNumber"`
	LabRoom   string    `json:"labRoom,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func New(recordID, idNumber, labRoom string, rating int, comment string, now time.Time) (Feedback, error) {
	if rating < 1 || rating > 5 {
		return Feedback{}, fmt.Errorf("%w: got %d", ErrRating, rating)
	}
	return Feedback{
		ID:        uuid.NewString(),
		RecordID:  recordID,
		IDNumber:  idNumber,
		LabRoom:   labRoom,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: now,
	}, nil
}
