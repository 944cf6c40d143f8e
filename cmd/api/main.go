package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/patient-api/config"
	"github.com/jwalitptl/patient-api/internal/handler"
	patienthandler "github.com/jwalitptl/patient-api/internal/handler/patient"
	"github.com/jwalitptl/patient-api/internal/middleware"
	"github.com/jwalitptl/patient-api/internal/repository/postgres"
	"github.com/jwalitptl/patient-api/internal/router"
	patientService "github.com/jwalitptl/patient-api/internal/service/patient"
	"github.com/jwalitptl/patient-api/migrations"
	"github.com/jwalitptl/patient-api/pkg/logger"
	"github.com/jwalitptl/patient-api/pkg/metrics"
	"github.com/jwalitptl/patient-api/pkg/shutdown"
	"github.com/jwalitptl/patient-api/pkg/validator"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "patient-api",
		Short:         "Patient Management API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrate, _ := cmd.Flags().GetBool("migrate")
			return runServer(cmd.Context(), migrate)
		},
	}
	cmd.Flags().Bool("migrate", false, "Apply pending migrations before serving")
	return cmd
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), func(ctx context.Context, m *postgres.Migrator) error {
				count, err := m.Up(ctx)
				if err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) successfully.\n", count)
				return nil
			})
		},
	}
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), func(ctx context.Context, m *postgres.Migrator) error {
				statuses, err := m.Status(ctx)
				if err != nil {
					return fmt.Errorf("failed to get migration status: %w", err)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
				for _, s := range statuses {
					status, at := "pending", ""
					if s.Applied {
						status = "applied"
						if s.AppliedAt != nil {
							at = s.AppliedAt.Format(time.RFC3339)
						}
					}
					fmt.Fprintf(out, "%-10d %-40s %-10s %s\n", s.Version, s.Name, status, at)
				}
				return nil
			})
		},
	}
	cmd.AddCommand(statusCmd)

	return cmd
}

func newLogger(cfg *config.Config) *logger.Logger {
	log := logger.NewLogger(&logger.Config{
		Level: logger.ParseLevel(cfg.Log.Level),
		JSON:  cfg.IsProduction(),
	})
	log.SetGlobal()
	return log
}

func withMigrator(ctx context.Context, fn func(context.Context, *postgres.Migrator) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(ctx, postgres.NewMigrator(db, migrations.FS, log))
}

func runServer(parent context.Context, migrate bool) (err error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	teardown := shutdown.New(log)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in serve: %v", r)
			log.Error(err, "Server panicked")
			gracefulStop(teardown, cfg.Server.ShutdownTimeout)
		}
	}()

	ctx, stop := shutdown.NotifyContext(parent)
	defer stop()

	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		log.Error(err, "Failed to connect to database")
		return err
	}
	teardown.Register("database", func(context.Context) error {
		return db.Close()
	})

	if migrate {
		count, err := postgres.NewMigrator(db, migrations.FS, log).Up(ctx)
		if err != nil {
			gracefulStop(teardown, cfg.Server.ShutdownTimeout)
			return fmt.Errorf("migration failed: %w", err)
		}
		log.Info("Migrations applied", "count", count)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New("patients", registry)

	v := validator.New()
	patientRepo := postgres.NewPatientRepository(db, log, m)
	patientSvc := patientService.NewService(patientRepo, v, log)

	var limit rate.Limit
	if cfg.RateLimit.Enabled {
		limit = rate.Limit(cfg.RateLimit.RequestsPerSecond)
	}

	r := router.NewRouter(
		handler.NewHandler(db, registry),
		patienthandler.NewHandler(patientSvc),
		v,
		router.RouterConfig{
			Production:     cfg.IsProduction(),
			CORSConfig:     middleware.DefaultCORSConfig(cfg.Security.AllowedOrigins...),
			MaxBodyBytes:   cfg.Security.MaxBodyBytes,
			RequestTimeout: cfg.Server.RequestTimeout,
			RateLimit:      limit,
			RateBurst:      cfg.RateLimit.Burst,
			Metrics:        m,
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:           cfg.Addr(),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}
	teardown.Register("http server", srv.Shutdown)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server started", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
		return gracefulStop(teardown, cfg.Server.ShutdownTimeout)
	case err := <-serveErr:
		log.Error(err, "Server failed")
		gracefulStop(teardown, cfg.Server.ShutdownTimeout)
		return err
	}
}

func gracefulStop(t *shutdown.Teardown, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return t.Run(ctx)
}
