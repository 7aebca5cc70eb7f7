package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Spok95/sitin-tracker/internal/api"
	"github.com/Spok95/sitin-tracker/internal/config"
	"github.com/Spok95/sitin-tracker/internal/domain/records"
	"github.com/Spok95/sitin-tracker/internal/infra/db"
	httpx "github.com/Spok95/sitin-tracker/internal/infra/http"
	"github.com/Spok95/sitin-tracker/internal/infra/logger"
	"github.com/Spok95/sitin-tracker/internal/worker"
)

func main() {
	var cfgPath string
	root := &cobra.Command{
		Use:           "sitin",
		Short:         "Computer lab sit-in tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "config/example.yaml", "Path to the YAML config file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API and the auto-logout worker",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runServe(cfgPath)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runMigrate(cfgPath)
			},
		},
		&cobra.Command{
			Use:   "sweep",
			Short: "Close expired active sessions once and exit",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runSweep(cmd.Context(), cfgPath)
			},
		},
		exportCmd(&cfgPath),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func exportCmd(cfgPath *string) *cobra.Command {
	var (
		out string
		f   records.Filter
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write records to an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd.Context(), *cfgPath, out, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&out, "out", "records.xlsx", "Output file")
	fl.StringVar(&f.IDNumber, "id-number", "", "Only this student's records")
	fl.StringVar(&f.From, "from", "", "First date (YYYY-MM-DD)")
	fl.StringVar(&f.To, "to", "", "Last date (YYYY-MM-DD)")
	return cmd
}

func runServe(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	log := logger.New(cfg.App.Env)
	if cfg.App.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	h := api.New(a.svc, a.sessions, cfg.Auth.CookieName, cfg.App.Env != "dev", log)
	srv := httpx.New(httpx.Options{
		Addr:           cfg.HTTP.Addr,
		ExposeMetrics:  cfg.Metrics.Enabled,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Log:            log,
		Mount:          h.Mount,
	})
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
			stop()
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.RunAutoLogout(ctx, a.svc, cfg.Lab.SweepInterval, log)
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	<-done
	log.Info("graceful shutdown complete")
	return nil
}

func runMigrate(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if cfg.Storage.Driver != "postgres" {
		return fmt.Errorf("migrate: storage.driver is %q, nothing to migrate", cfg.Storage.Driver)
	}
	return db.Migrate(cfg.Postgres.DSN, logger.New(cfg.App.Env))
}

func runSweep(ctx context.Context, cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	log := logger.New(cfg.App.Env)
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.svc.AutoLogout(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("closed %d session(s)\n", n)
	return nil
}

func runExport(ctx context.Context, cfgPath, out string, f records.Filter) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	log := logger.New(cfg.App.Env)
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	file, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := a.svc.WriteReport(ctx, file, f); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	log.Info("export written", "path", out)
	return nil
}
