// Package service runs the lab's business operations against a storage.Store.
// Each exported method is one request's worth of work inside one transaction.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Spok95/sitin-tracker/internal/domain/lifecycle"
	"github.com/Spok95/sitin-tracker/internal/domain/resets"
	"github.com/Spok95/sitin-tracker/internal/domain/students"
	"github.com/Spok95/sitin-tracker/internal/infra/notify"
	"github.com/Spok95/sitin-tracker/internal/storage"
)

var (
	ErrInvalidInput  = errors.New("service: invalid input")
	ErrForbidden     = errors.New("service: not allowed")
	ErrDuplicateSlot = errors.New("service: student already has a reservation for this slot")
	ErrActiveSession = errors.New("service: student already has an active session")
)

type Options struct {
	Engine        lifecycle.Engine
	Quota         students.QuotaPolicy
	Calendar      resets.Calendar
	Location      *time.Location
	LogoutAfter   time.Duration
	AdminID       string
	AdminPassword string
	Notifier      notify.Notifier
	Log           *slog.Logger
	Now           func() time.Time
}

type Service struct {
	store       storage.Store
	engine      lifecycle.Engine
	quota       students.QuotaPolicy
	calendar    resets.Calendar
	loc         *time.Location
	logoutAfter time.Duration
	adminID     string
	adminPass   string
	notifier    notify.Notifier
	log         *slog.Logger
	now         func() time.Time
}

func New(store storage.Store, o Options) *Service {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Log == nil {
		o.Log = slog.New(slog.DiscardHandler)
	}
	if o.Notifier == nil {
		o.Notifier = notify.NewLog(o.Log)
	}
	if o.Engine.Terminal == "" {
		o.Engine, _ = lifecycle.New("")
	}
	if o.LogoutAfter <= 0 {
		o.LogoutAfter = 2 * time.Hour
	}
	return &Service{
		store:       store,
		engine:      o.Engine,
		quota:       o.Quota,
		calendar:    o.Calendar,
		loc:         o.Location,
		logoutAfter: o.LogoutAfter,
		adminID:     o.AdminID,
		adminPass:   o.AdminPassword,
		notifier:    o.Notifier,
		log:         o.Log,
		now:         o.Now,
	}
}

func (s *Service) Location() *time.Location { return s.loc }

// notify runs after the transaction committed; a failed notification never
// fails the operation.
func (s *Service) notify(ctx context.Context, text string) {
	if err := s.notifier.Notify(ctx, text); err != nil {
		s.log.Warn("notify failed", "err", err)
	}
}
