package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/MimeLyc/subtitle-batch-translator/internal/config"
	"github.com/MimeLyc/subtitle-batch-translator/internal/httpapi"
	"github.com/MimeLyc/subtitle-batch-translator/internal/jobs"
	"github.com/MimeLyc/subtitle-batch-translator/internal/persistence"
	"github.com/MimeLyc/subtitle-batch-translator/internal/service"
	"github.com/MimeLyc/subtitle-batch-translator/pkg/log"
)

const shutdownTimeout = 10 * time.Second

type scheduler interface {
	Schedule(ctx context.Context) error
}

type cronEngine interface {
	Start()
	Stop() context.Context
}

type httpServer interface {
	ListenAndServe(addr string) error
	Shutdown(ctx context.Context) error
}

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the job queue, watch-folder scheduler and HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}
	cmd.Flags().String("addr", "", "HTTP listen address (defaults to HTTP_ADDR)")
	return cmd
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.HTTP.Addr = addr
	}

	store, err := persistence.NewSQLiteStore(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("open job store: %w", err)
	}
	defer store.Close()

	queue := jobs.NewQueue(cfg.System.Workers, store)
	svc := service.NewService(*cfg,
		service.WithCheckpointStore(store),
		service.WithProgressSink(queue),
	)
	queue.Start(svc.Execute)
	defer queue.Stop()

	cronRunner := cron.New()
	sched := service.NewScheduler(*cfg, queue, cronRunner)

	settings, err := config.NewRuntimeSettingsStore(config.RuntimeSettingsFilePath(), cfg.RuntimeSettings())
	if err != nil {
		return fmt.Errorf("runtime settings: %w", err)
	}
	settings.OnChange(func(rs config.RuntimeSettings) {
		if err := svc.ApplyRuntimeSettings(rs); err != nil {
			log.Error("Failed to apply runtime settings to service: %v", err)
		}
		if err := sched.ApplyRuntimeSettings(rs); err != nil {
			log.Error("Failed to apply runtime settings to scheduler: %v", err)
		}
	})

	httpSrv := httpapi.NewServer(queue,
		httpapi.WithRuntimeSettingsStore(settings),
		httpapi.WithBackendConfig(cfg),
		httpapi.WithJWTSecret(cfg.HTTP.JWTSecret),
		httpapi.WithCORSOrigins(cfg.HTTP.CORSOrigins),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return runWithComponents(ctx, cfg, sched, cronRunner, httpSrv)
}

// runWithComponents schedules the watch scan, starts cron and serves HTTP
// until ctx is done or the listener fails.
func runWithComponents(ctx context.Context, cfg *config.Config, sched scheduler, c cronEngine, srv httpServer) error {
	if err := sched.Schedule(ctx); err != nil {
		return fmt.Errorf("schedule watch scan: %w", err)
	}
	c.Start()
	defer func() {
		if done := c.Stop().Done(); done != nil {
			<-done
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP API listening on %s", cfg.HTTP.Addr)
		errCh <- srv.ListenAndServe(cfg.HTTP.Addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
