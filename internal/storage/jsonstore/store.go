// Package jsonstore keeps the lab data in flat JSON files, one array per file.
//
// Each transaction re-reads the files it touches, works on an in-memory copy
// and rewrites only the files it changed. Writers inside one process are
// serialised; separate processes sharing a directory are not coordinated.
package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/Spok95/sitin-tracker/internal/domain/announcements"
	"github.com/Spok95/sitin-tracker/internal/domain/feedback"
	"github.com/Spok95/sitin-tracker/internal/domain/records"
	"github.com/Spok95/sitin-tracker/internal/domain/resets"
	"github.com/Spok95/sitin-tracker/internal/domain/students"
	"github.com/Spok95/sitin-tracker/internal/storage"
)

const (
	StudentsFile      = "data.json"
	RecordsFile       = "reservations.json"
	LegacySitInsFile  = "sit-ins.json"
	ResetLogsFile     = "data/reset-logs.json"
	AnnouncementsFile = "announcements.json"
	FeedbackFile      = "data/feedback.json"
)

var _ storage.Store = (*Store)(nil)

type Store struct {
	dir string
	loc *time.Location
	log *slog.Logger
	mu  sync.Mutex
}

// Open uses dir as the data directory. loc resolves record slots that carry
// no timestamps; nil means UTC.
func Open(dir string, loc *time.Location, log *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, "data"), 0o755); err != nil {
		return nil, fmt.Errorf("jsonstore: create data dir: %w", err)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if loc == nil {
		loc = time.UTC
	}
	s := &Store{dir: dir, loc: loc, log: log}
	if err := s.importLegacy(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return nil }

func (s *Store) InTx(ctx context.Context, fn func(tx storage.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	t := s.newTx()
	if err := fn(t); err != nil {
		return err
	}
	return t.flush()
}

type table[T any] struct {
	path   string
	fix    func(T) T
	check  func(T) error
	log    *slog.Logger
	items  []T
	bad    []T // rows that failed check; written back untouched
	loaded bool
	dirty  bool
}

func (t *table[T]) load() error {
	if t.loaded {
		return nil
	}
	items, err := readJSON[T](t.path)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, it := range items {
		if t.fix != nil {
			it = t.fix(it)
		}
		if t.check != nil {
			if err := t.check(it); err != nil {
				t.log.Warn("jsonstore: row skipped", "file", filepath.Base(t.path), "err", err)
				t.bad = append(t.bad, it)
				continue
			}
		}
		kept = append(kept, it)
	}
	t.items = kept
	t.loaded = true
	return nil
}

func (t *table[T]) flush() error {
	if !t.dirty {
		return nil
	}
	if err := writeJSON(t.path, slices.Concat(t.items, t.bad)); err != nil {
		return err
	}
	t.dirty = false
	return nil
}

type tx struct {
	students      *table[students.Student]
	records       *table[records.Record]
	resetLogs     *table[resets.Entry]
	announcements *table[announcements.Announcement]
	feedback      *table[feedback.Feedback]
}

func (s *Store) newTx() *tx {
	p := func(name string) string { return filepath.Join(s.dir, filepath.FromSlash(name)) }
	normalize := func(r records.Record) records.Record { return r.Normalize(s.loc) }
	return &tx{
		students:      &table[students.Student]{path: p(StudentsFile), check: students.Student.Validate, log: s.log},
		records:       &table[records.Record]{path: p(RecordsFile), fix: normalize, check: records.Record.Validate, log: s.log},
		resetLogs:     &table[resets.Entry]{path: p(ResetLogsFile)},
		announcements: &table[announcements.Announcement]{path: p(AnnouncementsFile)},
		feedback:      &table[feedback.Feedback]{path: p(FeedbackFile)},
	}
}

// flush writes changed tables. Records go first so a crash between files
// leaves counters stale rather than pointing at records that never landed.
func (t *tx) flush() error {
	for _, f := range []func() error{
		t.records.flush,
		t.students.flush,
		t.resetLogs.flush,
		t.announcements.flush,
		t.feedback.flush,
	} {
		if err := f(); err != nil {
			return err
		}
	}
	return nil
}

func (t *tx) Students() storage.Students           { return studentRepo{t.students} }
func (t *tx) Records() storage.Records             { return recordRepo{t.records} }
func (t *tx) ResetLogs() storage.ResetLogs         { return resetLogRepo{t.resetLogs} }
func (t *tx) Announcements() storage.Announcements { return announcementRepo{t.announcements} }
func (t *tx) Feedback() storage.Feedback           { return feedbackRepo{t.feedback} }

// readJSON returns an empty slice for a missing or blank file.
func readJSON[T any](path string) ([]T, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("jsonstore: read %s: %w", filepath.Base(path), err)
	}
	if len(raw) == 0 {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("jsonstore: decode %s: %w", filepath.Base(path), err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// writeJSON replaces path atomically via a temp file in the same directory.
func writeJSON[T any](path string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonstore: encode %s: %w", filepath.Base(path), err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("jsonstore: temp for %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(append(raw, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("jsonstore: write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("jsonstore: close %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("jsonstore: replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
