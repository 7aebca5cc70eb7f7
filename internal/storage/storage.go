// Package storage defines the repositories the service works against.
// Every read-modify-write happens inside Store.InTx so a failed operation
// leaves nothing half written.
package storage

import (
	"context"
	"errors"

	"github.com/Spok95/sitin-tracker/internal/domain/announcements"
	"github.com/Spok95/sitin-tracker/internal/domain/feedback"
	"github.com/Spok95/sitin-tracker/internal/domain/records"
	"github.com/Spok95/sitin-tracker/internal/domain/resets"
	"github.com/Spok95/sitin-tracker/internal/domain/students"
)

var (
	ErrNotFound = errors.New("storage: not found")
	ErrConflict = errors.New("storage: already exists")
)

type Students interface {
	Get(ctx context.Context, idNumber string) (*students.Student, error)
	List(ctx context.Context) ([]students.Student, error)
	Create(ctx context.Context, s *students.Student) error
	Update(ctx context.Context, s *students.Student) error
}

// Records keeps creation order: List returns oldest first.
type Records interface {
	Get(ctx context.Context, id string) (*records.Record, error)
	List(ctx context.Context, f records.Filter) ([]records.Record, error)
	Create(ctx context.Context, r *records.Record) error
	Update(ctx context.Context, r *records.Record) error
	Delete(ctx context.Context, ids []string) (int, error)
}

// ResetLogs is append-only; List returns newest first.
type ResetLogs interface {
	Append(ctx context.Context, e *resets.Entry) error
	List(ctx context.Context) ([]resets.Entry, error)
}

// Announcements.List returns newest first.
type Announcements interface {
	Create(ctx context.Context, a *announcements.Announcement) error
	List(ctx context.Context) ([]announcements.Announcement, error)
	Delete(ctx context.Context, id string) error
}

type Feedback interface {
	Create(ctx context.Context, f *feedback.Feedback) error
	List(ctx context.Context) ([]feedback.Feedback, error)
	ExistsForRecord(ctx context.Context, recordID string) (bool, error)
}

type Tx interface {
	Students() Students
	Records() Records
	ResetLogs() ResetLogs
	Announcements() Announcements
	Feedback() Feedback
}

type Store interface {
	// InTx runs fn against a consistent view of the data and commits its
	// writes only when fn returns nil.
	InTx(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}
