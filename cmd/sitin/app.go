package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Spok95/sitin-tracker/internal/auth"
	"github.com/Spok95/sitin-tracker/internal/config"
	"github.com/Spok95/sitin-tracker/internal/domain/lifecycle"
	"github.com/Spok95/sitin-tracker/internal/domain/records"
	"github.com/Spok95/sitin-tracker/internal/domain/resets"
	"github.com/Spok95/sitin-tracker/internal/domain/students"
	"github.com/Spok95/sitin-tracker/internal/infra/db"
	"github.com/Spok95/sitin-tracker/internal/infra/notify"
	"github.com/Spok95/sitin-tracker/internal/service"
	"github.com/Spok95/sitin-tracker/internal/storage"
	"github.com/Spok95/sitin-tracker/internal/storage/jsonstore"
	"github.com/Spok95/sitin-tracker/internal/storage/pgstore"
)

type app struct {
	cfg      config.Config
	log      *slog.Logger
	store    storage.Store
	svc      *service.Service
	sessions *auth.Sessions
}

func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (storage.Store, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		if err := db.Migrate(cfg.Postgres.DSN, log); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
		pool, err := db.Connect(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		log.Info("db connected")
		return pgstore.New(pool), nil
	default:
		s, err := jsonstore.Open(cfg.Storage.DataDir, cfg.Location(), log)
		if err != nil {
			return nil, err
		}
		log.Info("json store opened", "dir", cfg.Storage.DataDir)
		return s, nil
	}
}

func calendarFrom(cfg config.Config) (resets.Calendar, error) {
	sems := make([]resets.Semester, 0, len(cfg.Semesters))
	for _, s := range cfg.Semesters {
		sem, err := resets.NewSemester(s.Name, s.Start, s.End)
		if err != nil {
			return resets.Calendar{}, fmt.Errorf("config: semester %q: %w", s.Name, err)
		}
		sems = append(sems, sem)
	}
	return resets.NewCalendar(sems...), nil
}

func newApp(ctx context.Context, cfg config.Config, log *slog.Logger) (*app, error) {
	engine, err := lifecycle.New(records.Status(cfg.Lab.TerminalStatus))
	if err != nil {
		return nil, err
	}
	cal, err := calendarFrom(cfg)
	if err != nil {
		return nil, err
	}
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	svc := service.New(store, service.Options{
		Engine: engine,
		Quota: students.QuotaPolicy{
			ComputingCourses: cfg.Lab.ComputingCourses,
			ComputingQuota:   cfg.Lab.ComputingQuota,
			DefaultQuota:     cfg.Lab.DefaultQuota,
		},
		Calendar:      cal,
		Location:      cfg.Location(),
		LogoutAfter:   cfg.Lab.AutoLogoutAfter,
		AdminID:       cfg.Admin.ID,
		AdminPassword: cfg.Admin.Password,
		Notifier:      notify.New(cfg.Telegram.Token, cfg.Telegram.AdminChatID, log),
		Log:           log,
	})
	return &app{
		cfg:      cfg,
		log:      log,
		store:    store,
		svc:      svc,
		sessions: auth.NewSessions(cfg.Auth.Secret, cfg.Auth.SessionTTL),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("store close", "err", err)
	}
}
