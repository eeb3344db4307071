package main

import (
	"context"
	"errors"

	"github.com/kbukum/deckurl/bootstrap"
	"github.com/kbukum/deckurl/observability"
)

// setupTelemetry installs OTLP trace and metric providers for the task when
// observability is enabled, and flushes them on stop.
func setupTelemetry(app *bootstrap.App[*AppConfig]) {
	obs := app.Cfg.Observability
	if !obs.Enabled {
		return
	}

	var shutdowns []func(context.Context) error

	app.OnStart(func(ctx context.Context) error {
		tp, err := observability.InitTracer(ctx, obs.Tracer(app.Name, app.Version, app.Cfg.Environment))
		if err != nil {
			return err
		}
		shutdowns = append(shutdowns, tp.Shutdown)

		mp, err := observability.InitMeter(ctx, obs.Meter(app.Name, app.Version, app.Cfg.Environment))
		if err != nil {
			return err
		}
		shutdowns = append(shutdowns, mp.Shutdown)
		return nil
	})

	app.OnStop(func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	})
}
