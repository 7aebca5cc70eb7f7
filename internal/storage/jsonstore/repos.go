package jsonstore

import (
	"context"
	"fmt"

	"github.com/Spok95/sitin-tracker/internal/domain/announcements"
	"github.com/Spok95/sitin-tracker/internal/domain/feedback"
	"github.com/Spok95/sitin-tracker/internal/domain/records"
	"github.com/Spok95/sitin-tracker/internal/domain/resets"
	"github.com/Spok95/sitin-tracker/internal/domain/students"
	"github.com/Spok95/sitin-tracker/internal/storage"
)

type studentRepo struct{ t *table[students.Student] }

func (r studentRepo) find(idNumber string) (int, error) {
	if err := r.t.load(); err != nil {
		return -1, err
	}
	for i := range r.t.items {
		if r.t.items[i].IDNumber == idNumber {
			return i, nil
		}
	}
	return -1, nil
}

func (r studentRepo) Get(_ context.Context, idNumber string) (*students.Student, error) {
	i, err := r.find(idNumber)
	if err != nil {
		return nil, err
	}
	if i < 0 {
		return nil, fmt.Errorf("student %s: %w", idNumber, storage.ErrNotFound)
	}
	s := r.t.items[i]
	return &s, nil
}

func (r studentRepo) List(_ context.Context) ([]students.Student, error) {
	if err := r.t.load(); err != nil {
		return nil, err
	}
	return append([]students.Student{}, r.t.items...), nil
}

func (r studentRepo) Create(_ context.Context, s *students.Student) error {
	if err := s.Validate(); err != nil {
		return err
	}
	i, err := r.find(s.IDNumber)
	if err != nil {
		return err
	}
	if i >= 0 {
		return fmt.Errorf("student %s: %w", s.IDNumber, storage.ErrConflict)
	}
	r.t.items = append(r.t.items, *s)
	r.t.dirty = true
	return nil
}

func (r studentRepo) Update(_ context.Context, s *students.Student) error {
	if err := s.Validate(); err != nil {
		return err
	}
	i, err := r.find(s.IDNumber)
	if err != nil {
		return err
	}
	if i < 0 {
		return fmt.Errorf("student %s: %w", s.IDNumber, storage.ErrNotFound)
	}
	r.t.items[i] = *s
	r.t.dirty = true
	return nil
}

type recordRepo struct{ t *table[records.Record] }

func (r recordRepo) find(id string) (int, error) {
	if err := r.t.load(); err != nil {
		return -1, err
	}
	for i := range r.t.items {
		if r.t.items[i].ID == id {
			return i, nil
		}
	}
	return -1, nil
}

func (r recordRepo) Get(_ context.Context, id string) (*records.Record, error) {
	i, err := r.find(id)
	if err != nil {
		return nil, err
	}
	if i < 0 {
		return nil, fmt.Errorf("record %s: %w", id, storage.ErrNotFound)
	}
	rec := r.t.items[i]
	return &rec, nil
}

func (r recordRepo) List(_ context.Context, f records.Filter) ([]records.Record, error) {
	if err := r.t.load(); err != nil {
		return nil, err
	}
	return records.Select(r.t.items, f), nil
}

func (r recordRepo) Create(_ context.Context, rec *records.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	i, err := r.find(rec.ID)
	if err != nil {
		return err
	}
	if i >= 0 {
		return fmt.Errorf("record %s: %w", rec.ID, storage.ErrConflict)
	}
	r.t.items = append(r.t.items, *rec)
	r.t.dirty = true
	return nil
}

func (r recordRepo) Update(_ context.Context, rec *records.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	i, err := r.find(rec.ID)
	if err != nil {
		return err
	}
	if i < 0 {
		return fmt.Errorf("record %s: %w", rec.ID, storage.ErrNotFound)
	}
	r.t.items[i] = *rec
	r.t.dirty = true
	return nil
}

func (r recordRepo) Delete(_ context.Context, ids []string) (int, error) {
	if err := r.t.load(); err != nil {
		return 0, err
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := r.t.items[:0:0]
	for _, rec := range r.t.items {
		if !drop[rec.ID] {
			kept = append(kept, rec)
		}
	}
	n := len(r.t.items) - len(kept)
	if n > 0 {
		r.t.items = kept
		r.t.dirty = true
	}
	return n, nil
}

type resetLogRepo struct{ t *table[resets.Entry] }

func (r resetLogRepo) Append(_ context.Context, e *resets.Entry) error {
	if err := r.t.load(); err != nil {
		return err
	}
	r.t.items = append(r.t.items, *e)
	r.t.dirty = true
	return nil
}

func (r resetLogRepo) List(_ context.Context) ([]resets.Entry, error) {
	if err := r.t.load(); err != nil {
		return nil, err
	}
	return reversed(r.t.items), nil
}

type announcementRepo struct {
	t *table[announcements.Announcement]
}

func (r announcementRepo) Create(_ context.Context, a *announcements.Announcement) error {
	if err := r.t.load(); err != nil {
		return err
	}
	r.t.items = append(r.t.items, *a)
	r.t.dirty = true
	return nil
}

func (r announcementRepo) List(_ context.Context) ([]announcements.Announcement, error) {
	if err := r.t.load(); err != nil {
		return nil, err
	}
	return reversed(r.t.items), nil
}

func (r announcementRepo) Delete(_ context.Context, id string) error {
	if err := r.t.load(); err != nil {
		return err
	}
	for i := range r.t.items {
		if r.t.items[i].ID == id {
			r.t.items = append(r.t.items[:i:i], r.t.items[i+1:]...)
			r.t.dirty = true
			return nil
		}
	}
	return fmt.Errorf("announcement %s: %w", id, storage.ErrNotFound)
}

type feedbackRepo struct{ t *table[feedback.Feedback] }

func (r feedbackRepo) Create(_ context.Context, f *feedback.Feedback) error {
	if err := r.t.load(); err != nil {
		return err
	}
	r.t.items = append(r.t.items, *f)
	r.t.dirty = true
	return nil
}

func (r feedbackRepo) List(_ context.Context) ([]feedback.Feedback, error) {
	if err := r.t.load(); err != nil {
		return nil, err
	}
	return reversed(r.t.items), nil
}

func (r feedbackRepo) ExistsForRecord(_ context.Context, recordID string) (bool, error) {
	if err := r.t.load(); err != nil {
		return false, err
	}
	for _, f := range r.t.items {
		if f.RecordID == recordID {
			return true, nil
		}
	}
	return false, nil
}

func reversed[T any](in []T) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}
