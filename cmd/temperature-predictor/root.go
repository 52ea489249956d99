package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/i474232898/temperature-prediction/internal/config"
	"github.com/i474232898/temperature-prediction/internal/logger"
	"github.com/i474232898/temperature-prediction/internal/prediction"
	"github.com/i474232898/temperature-prediction/internal/prediction/predictors"
)

// application is the immutable context built once at startup and handed to
// every command.
type application struct {
	cfg     *config.AppConfig
	log     *zap.SugaredLogger
	service *prediction.Service
}

func newRootCmd() *cobra.Command {
	app := &application{}

	cmd := &cobra.Command{
		Use:          "temperature-predictor",
		Short:        "Predict air temperature from weather features",
		SilenceUsage: true,
		PreRunE:      app.preRun,
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = logger.Sync()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.serve(cmd.Context())
		},
	}

	cmd.AddCommand(
		newServeCmd(app),
		newPredictCmd(app),
		newPredictFileCmd(app),
	)
	return cmd
}

// preRun is attached to every command that predicts, so help and completion
// work without configuration on disk.
func (a *application) preRun(_ *cobra.Command, _ []string) error {
	return a.init()
}

// init loads configuration, parameters and the model. Any failure here is
// fatal: the service never runs with partial configuration.
func (a *application) init() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	a.log = logger.Init(logger.Config{
		Level:      cfg.LogLevel,
		Path:       cfg.LogPath,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	})

	params, err := prediction.LoadParametersFile(cfg.ParametersPath)
	if err != nil {
		a.log.Errorw("failed to load parameters", "path", cfg.ParametersPath, "error", err)
		return err
	}

	model, err := predictors.Open(predictors.Options{
		Kind:       cfg.ModelKind,
		Path:       cfg.ModelPath,
		URL:        cfg.ModelURL,
		Timeout:    cfg.ModelTimeout,
		MaxRetries: cfg.ModelMaxRetries,
	})
	if err != nil {
		a.log.Errorw("failed to load model", "kind", cfg.ModelKind, "path", cfg.ModelPath, "error", err)
		return fmt.Errorf("failed to load model: %w", err)
	}

	a.service = prediction.NewService(params, model)
	a.log.Infow("predictor ready", "model", cfg.ModelKind, "parameters", cfg.ParametersPath)
	return nil
}
