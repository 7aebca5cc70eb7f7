package pgstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Spok95/sitin-tracker/internal/domain/announcements"
	"github.com/Spok95/sitin-tracker/internal/domain/feedback"
	"github.com/Spok95/sitin-tracker/internal/domain/records"
	"github.com/Spok95/sitin-tracker/internal/domain/resets"
	"github.com/Spok95/sitin-tracker/internal/domain/students"
)

const studentCols = `id_number, first_name, middle_name, last_name, course, year_level, email, password_hash,
	remaining_sessions, pending_reservations, completed_sessions, points, created_at, updated_at`

type studentRepo struct{ q pgx.Tx }

func scanStudent(row pgx.Row) (*students.Student, error) {
	var s students.Student
	err := row.Scan(&s.IDNumber, &s.FirstName, &s.MiddleName, &s.LastName, &s.Course, &s.YearLevel, &s.Email,
		&s.PasswordHash, &s.RemainingSessions, &s.PendingReservations, &s.CompletedSessions, &s.Points,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r studentRepo) Get(ctx context.Context, idNumber string) (*students.Student, error) {
	s, err := scanStudent(r.q.QueryRow(ctx, `SELECT `+studentCols+` FROM students WHERE id_number = $1`, idNumber))
	if err != nil {
		return nil, mapErr("student", idNumber, err)
	}
	return s, nil
}

func (r studentRepo) List(ctx context.Context) ([]students.Student, error) {
	rows, err := r.q.Query(ctx, `SELECT `+studentCols+` FROM students ORDER BY id_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []students.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r studentRepo) Create(ctx context.Context, s *students.Student) error {
	if err := s.Validate(); err != nil {
		return err
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO students (`+studentCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`, s.IDNumber, s.FirstName, s.MiddleName, s.LastName, s.Course, s.YearLevel, s.Email, s.PasswordHash,
		s.RemainingSessions, s.PendingReservations, s.CompletedSessions, s.Points, s.CreatedAt, s.UpdatedAt)
	return mapErr("student", s.IDNumber, err)
}

func (r studentRepo) Update(ctx context.Context, s *students.Student) error {
	if err := s.Validate(); err != nil {
		return err
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE students SET
			first_name = $2, middle_name = $3, last_name = $4, course = $5, year_level = $6, email = $7,
			password_hash = $8, remaining_sessions = $9, pending_reservations = $10,
			completed_sessions = $11, points = $12, updated_at = $13
		WHERE id_number = $1
	`, s.IDNumber, s.FirstName, s.MiddleName, s.LastName, s.Course, s.YearLevel, s.Email, s.PasswordHash,
		s.RemainingSessions, s.PendingReservations, s.CompletedSessions, s.Points, s.UpdatedAt)
	if err != nil {
		return mapErr("student", s.IDNumber, err)
	}
	return notFoundIfNone(tag, "student", s.IDNumber)
}

const recordCols = `id, id_number, student_name, status, date, time, is_walk_in, purpose, lab_room,
	programming_language, time_in, completed_at, time_out, created_at, updated_at`

type recordRepo struct{ q pgx.Tx }

func scanRecord(row pgx.Row) (*records.Record, error) {
	var r records.Record
	err := row.Scan(&r.ID, &r.IDNumber, &r.StudentName, &r.Status, &r.Date, &r.Time, &r.IsWalkIn, &r.Purpose,
		&r.LabRoom, &r.ProgrammingLanguage, &r.TimeIn, &r.CompletedAt, &r.TimeOut, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r recordRepo) Get(ctx context.Context, id string) (*records.Record, error) {
	rec, err := scanRecord(r.q.QueryRow(ctx, `SELECT `+recordCols+` FROM records WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr("record", id, err)
	}
	return rec, nil
}

// filterSQL renders f as a WHERE clause with positional arguments.
func filterSQL(f records.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.IDNumber != "" {
		add("id_number = $%d", f.IDNumber)
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	if f.WalkIn != nil {
		add("is_walk_in = $%d", *f.WalkIn)
	}
	if f.From != "" {
		add("date >= $%d", f.From)
	}
	if f.To != "" {
		add("date <= $%d", f.To)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r recordRepo) List(ctx context.Context, f records.Filter) ([]records.Record, error) {
	where, args := filterSQL(f)
	rows, err := r.q.Query(ctx, `SELECT `+recordCols+` FROM records`+where+` ORDER BY seq`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []records.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (r recordRepo) Create(ctx context.Context, rec *records.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO records (`+recordCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`, rec.ID, rec.IDNumber, rec.StudentName, string(rec.Status), rec.Date, rec.Time, rec.IsWalkIn, rec.Purpose,
		rec.LabRoom, rec.ProgrammingLanguage, rec.TimeIn, rec.CompletedAt, rec.TimeOut, rec.CreatedAt, rec.UpdatedAt)
	return mapErr("record", rec.ID, err)
}

func (r recordRepo) Update(ctx context.Context, rec *records.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	tag, err := r.q.Exec(ctx, `
		UPDATE records SET
			id_number = $2, student_name = $3, status = $4, date = $5, time = $6, is_walk_in = $7,
			purpose = $8, lab_room = $9, programming_language = $10, time_in = $11,
			completed_at = $12, time_out = $13, updated_at = $14
		WHERE id = $1
	`, rec.ID, rec.IDNumber, rec.StudentName, string(rec.Status), rec.Date, rec.Time, rec.IsWalkIn, rec.Purpose,
		rec.LabRoom, rec.ProgrammingLanguage, rec.TimeIn, rec.CompletedAt, rec.TimeOut, rec.UpdatedAt)
	if err != nil {
		return mapErr("record", rec.ID, err)
	}
	return notFoundIfNone(tag, "record", rec.ID)
}

func (r recordRepo) Delete(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM records WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

type resetLogRepo struct{ q pgx.Tx }

func (r resetLogRepo) Append(ctx context.Context, e *resets.Entry) error {
	details, err := json.Marshal(e.Details)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO reset_logs (id, ts, admin_id, reset_type, details)
		VALUES ($1,$2,$3,$4,$5)
	`, e.ID, e.Timestamp, e.AdminID, string(e.ResetType), details)
	return mapErr("reset log", e.ID, err)
}

func (r resetLogRepo) List(ctx context.Context) ([]resets.Entry, error) {
	rows, err := r.q.Query(ctx, `SELECT id, ts, admin_id, reset_type, details FROM reset_logs ORDER BY ts DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []resets.Entry
	for rows.Next() {
		var (
			e       resets.Entry
			details []byte
		)
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.AdminID, &e.ResetType, &details); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(details, &e.Details); err != nil {
			return nil, fmt.Errorf("reset log %s: details: %w", e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type announcementRepo struct{ q pgx.Tx }

func (r announcementRepo) Create(ctx context.Context, a *announcements.Announcement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO announcements (id, title, content, admin_id, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, a.ID, a.Title, a.Content, a.AdminID, a.CreatedAt)
	return mapErr("announcement", a.ID, err)
}

func (r announcementRepo) List(ctx context.Context) ([]announcements.Announcement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, title, content, admin_id, created_at
		FROM announcements ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []announcements.Announcement
	for rows.Next() {
		var a announcements.Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.AdminID, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r announcementRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return notFoundIfNone(tag, "announcement", id)
}

type feedbackRepo struct{ q pgx.Tx }

func (r feedbackRepo) Create(ctx context.Context, f *feedback.Feedback) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO feedback (id, record_id, id_number, lab_room, rating, comment, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, f.ID, f.RecordID, f.IDNumber, f.LabRoom, f.Rating, f.Comment, f.CreatedAt)
	return mapErr("feedback", f.RecordID, err)
}

func (r feedbackRepo) List(ctx context.Context) ([]feedback.Feedback, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, record_id, id_number, lab_room, rating, comment, created_at
		FROM feedback ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []feedback.Feedback
	for rows.Next() {
		var f feedback.Feedback
		if err := rows.Scan(&f.ID, &f.RecordID, &f.IDNumber, &f.LabRoom, &f.Rating, &f.Comment, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r feedbackRepo) ExistsForRecord(ctx context.Context, recordID string) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM feedback WHERE record_id = $1)`, recordID).Scan(&ok)
	return ok, err
}
