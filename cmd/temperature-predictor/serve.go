package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/temperature-prediction/internal/api/http"
	"github.com/i474232898/temperature-prediction/internal/scheduler"
	"github.com/i474232898/temperature-prediction/internal/store"
	"github.com/i474232898/temperature-prediction/internal/weather"
)

func newServeCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Short:   "Start the HTTP API",
		PreRunE: app.preRun,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.serve(cmd.Context())
		},
	}
}

func (a *application) serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// History is display data only; a missing file leaves it empty.
	history := store.NewMemoryStore(a.cfg.HistoryMax)
	loadHistory := func() ([]weather.Observation, error) {
		return weather.LoadHistoryFile(a.cfg.HistoryPath)
	}
	if obs, err := loadHistory(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			a.log.Infow("no observation history found", "path", a.cfg.HistoryPath)
		} else {
			a.log.Warnw("failed to load observation history", "path", a.cfg.HistoryPath, "error", err)
		}
	} else {
		history.Replace(obs)
		a.log.Infow("observation history loaded", "observations", history.Len())
	}

	sched := scheduler.New(a.cfg.HistoryRefreshInterval, history, loadHistory, a.log)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	server := httpapi.NewApp(httpapi.Deps{
		Service:        a.service,
		History:        history,
		HistoryDisplay: a.cfg.HistoryDisplay,
	}, a.cfg.UploadMaxBytes)

	go func() {
		a.log.Infow("http server listening", "port", a.cfg.Port)
		if err := server.Listen(":" + a.cfg.Port); err != nil {
			a.log.Errorw("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		a.log.Errorw("error during shutdown", "error", err)
		return err
	}
	a.log.Info("shutdown complete")
	return nil
}
