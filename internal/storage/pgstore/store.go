// Package pgstore is the PostgreSQL backend. The schema comes from the goose
// migrations in /migrations.
package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/sitin-tracker/internal/storage"
)

// lockKey names the advisory lock that serialises writers across processes.
const lockKey int64 = 0x5171_7e57

var _ storage.Store = (*Store)(nil)

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store { return &Store{pool: pool} }

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) InTx(ctx context.Context, fn func(tx storage.Tx) error) (err error) {
	pgtx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pgstore: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = pgtx.Rollback(ctx)
		}
	}()

	if _, err = pgtx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, lockKey); err != nil {
		return fmt.Errorf("pgstore: lock: %w", err)
	}
	if err = fn(&tx{q: pgtx}); err != nil {
		return err
	}
	if err = pgtx.Commit(ctx); err != nil {
		return fmt.Errorf("pgstore: commit: %w", err)
	}
	return nil
}

type tx struct {
	q pgx.Tx
}

func (t *tx) Students() storage.Students           { return studentRepo{t.q} }
func (t *tx) Records() storage.Records             { return recordRepo{t.q} }
func (t *tx) ResetLogs() storage.ResetLogs         { return resetLogRepo{t.q} }
func (t *tx) Announcements() storage.Announcements { return announcementRepo{t.q} }
func (t *tx) Feedback() storage.Feedback           { return feedbackRepo{t.q} }

// mapErr turns driver errors into the storage sentinels.
func mapErr(what, id string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", what, id, storage.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%s %s: %w", what, id, storage.ErrConflict)
	}
	return fmt.Errorf("%s %s: %w", what, id, err)
}

func notFoundIfNone(tag pgconn.CommandTag, what, id string) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", what, id, storage.ErrNotFound)
	}
	return nil
}
