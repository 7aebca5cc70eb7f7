package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sort"
	"strings"

	"github.com/Spok95/sitin-tracker/internal/auth"
	"github.com/Spok95/sitin-tracker/internal/domain/students"
	"github.com/Spok95/sitin-tracker/internal/storage"
)

type RegisterInput struct {
	IDNumber   string
	FirstName  string
	MiddleName string
	LastName   string
	Course     string
	YearLevel  int
	Email      string
	Password   string
}

func (in RegisterInput) validate() error {
	var missing []string
	for name, v := range map[string]string{
		"idNumber":  in.IDNumber,
		"firstName": in.FirstName,
		"lastName":  in.LastName,
		"course":    in.Course,
	} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: missing %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	if in.YearLevel < 0 || in.YearLevel > 6 {
		return fmt.Errorf("%w: yearLevel out of range", ErrInvalidInput)
	}
	return nil
}

// Register creates a student account starting on the course baseline quota.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*students.Student, error) {
	in.IDNumber = strings.TrimSpace(in.IDNumber)
	if err := in.validate(); err != nil {
		return nil, err
	}
	if strings.EqualFold(in.IDNumber, s.adminID) {
		return nil, fmt.Errorf("student %s: %w", in.IDNumber, storage.ErrConflict)
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	st := students.Student{
		IDNumber:          in.IDNumber,
		FirstName:         strings.TrimSpace(in.FirstName),
		MiddleName:        strings.TrimSpace(in.MiddleName),
		LastName:          strings.TrimSpace(in.LastName),
		Course:            strings.TrimSpace(in.Course),
		YearLevel:         in.YearLevel,
		Email:             strings.TrimSpace(in.Email),
		PasswordHash:      hash,
		RemainingSessions: s.quota.Baseline(in.Course),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	err = s.store.InTx(ctx, func(tx storage.Tx) error {
		return tx.Students().Create(ctx, &st)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("student registered", "op", "register", "idNumber", st.IDNumber, "remainingSessions", st.RemainingSessions)
	out := st.Public()
	return &out, nil
}

// Login checks the configured admin pair first, then student accounts.
func (s *Service) Login(ctx context.Context, id, password string) (auth.Identity, error) {
	id = strings.TrimSpace(id)
	if s.adminID != "" && id == s.adminID {
		if subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPass)) == 1 {
			return auth.Identity{Subject: s.adminID, Role: auth.RoleAdmin}, nil
		}
		return auth.Identity{}, auth.ErrInvalidCredentials
	}

	var st *students.Student
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		st, err = tx.Students().Get(ctx, id)
		return err
	})
	if err != nil {
		if isNotFound(err) {
			return auth.Identity{}, auth.ErrInvalidCredentials
		}
		return auth.Identity{}, err
	}
	if err := auth.CheckPassword(st.PasswordHash, password); err != nil {
		return auth.Identity{}, err
	}
	return auth.Identity{Subject: st.IDNumber, Role: auth.RoleStudent}, nil
}

func (s *Service) Student(ctx context.Context, idNumber string) (*students.Student, error) {
	var st *students.Student
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		st, err = tx.Students().Get(ctx, idNumber)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := st.Public()
	return &out, nil
}

func (s *Service) Students(ctx context.Context) ([]students.Student, error) {
	var list []students.Student
	err := s.store.InTx(ctx, func(tx storage.Tx) error {
		var err error
		list, err = tx.Students().List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i] = list[i].Public()
	}
	return list, nil
}
