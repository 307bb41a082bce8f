package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"esgdash/internal/config"
)

// Start begins serving in the background and then warms the dataset. A
// listener failure calls cancel so Run can shut down.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "dashboard starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("address", a.Config.Address()))

	go func() {
		err := a.Server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "listener stopped", slog.String("error", err.Error()))
			cancel()
		}
	}()

	if err := a.warmDataset(ctx); err != nil {
		a.Logger.WarnContext(ctx, "dashboard will show the missing data notice", slog.String("reason", err.Error()))
	}
	a.Logger.InfoContext(ctx, "dashboard ready", slog.String("url", "http://"+a.Config.Address()))
	return nil
}

// warmDataset loads the table once so candidate diagnostics land in the
// startup log instead of the first page view.
func (a *Application) warmDataset(ctx context.Context) error {
	res, err := a.Services.Loader.Load(ctx)
	if res != nil {
		for _, d := range res.Diagnostics {
			a.Logger.InfoContext(ctx, "dataset candidate",
				slog.String("severity", string(d.Severity)),
				slog.String("path", d.Path),
				slog.String("message", d.Message))
		}
	}
	if err != nil {
		return fmt.Errorf("none of %d candidates loaded: %w", len(a.Services.Loader.Candidates()), err)
	}
	a.Logger.InfoContext(ctx, "dataset loaded",
		slog.String("source", res.Source),
		slog.Int("rows", res.Table.Len()))
	return nil
}

// Stop drains in-flight requests and flushes telemetry.
func (a *Application) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(ctx); err != nil {
			a.Logger.WarnContext(ctx, "telemetry flush failed", slog.String("error", err.Error()))
		}
	}
	a.Logger.InfoContext(ctx, "dashboard stopped")
	return nil
}

// Run serves until SIGINT, SIGTERM or a listener failure.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}
	<-ctx.Done()
	return a.Stop(context.Background())
}
