package app

import (
	"context"
	"fmt"
	"log/slog"

	"genosum/internal/config"
	"genosum/internal/infrastructure"
	"genosum/internal/pipeline"
	"genosum/internal/store"
	"genosum/pkg/contracts"
)

// Application wires the configured collaborators of a summary run.
type Application struct {
	Config    *config.Config
	Logger    *slog.Logger // Single slog instance for the process
	Telemetry *infrastructure.TelemetryProviders
	History   *store.Store // nil when no history database is configured
}

// NewApplication initializes logging, telemetry and, when configured, the
// history database. Call Close when done.
func NewApplication(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Debug("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version))

	telemetry, err := infrastructure.InitializeTelemetry(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	a := &Application{
		Config:    cfg,
		Logger:    logger,
		Telemetry: telemetry,
	}

	if cfg.HistoryDB != "" {
		history, err := store.Open(cfg.HistoryDB)
		if err != nil {
			telemetry.Shutdown(context.Background())
			return nil, err
		}
		a.History = history
	}

	return a, nil
}

// Run performs one summary pass in the configured mode.
func (a *Application) Run(ctx context.Context) (*pipeline.Result, error) {
	opts := pipeline.Options{
		Config:    a.Config,
		Logger:    a.Logger,
		Telemetry: a.Telemetry,
	}
	// Leave the interface nil rather than holding a nil *store.Store.
	if a.History != nil {
		opts.History = a.History
	}

	runner, err := pipeline.NewRunner(opts)
	if err != nil {
		return nil, err
	}

	result, err := runner.Run(ctx)
	if err != nil {
		a.Logger.ErrorContext(ctx, "Analysis failed",
			slog.String("mode", a.Config.Mode),
			slog.String("error", err.Error()))
		return nil, err
	}
	return result, nil
}

// Close flushes telemetry and releases the history database and log file.
func (a *Application) Close(ctx context.Context) error {
	var errs []error
	if err := a.Telemetry.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if a.History != nil {
		if err := a.History.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := infrastructure.CloseLogFile(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	return nil
}
