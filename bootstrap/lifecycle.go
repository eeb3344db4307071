package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kbukum/deckurl/component"
	"github.com/kbukum/deckurl/logger"
)

// RunTask starts the components, runs the OnStart hooks and OnConfigure
// callbacks, then calls task with a context that SIGINT or SIGTERM cancels.
// Shutdown always follows, including after a failed startup. When both the
// task and shutdown fail, the task error is returned and shutdown's is logged.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		if stopErr := a.shutdown(); stopErr != nil {
			a.Logger.Warn("shutdown after failed startup", logger.ErrorFields("shutdown", stopErr))
		}
		return err
	}

	taskCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	taskErr := task(taskCtx)
	if ctx.Err() == nil && taskCtx.Err() != nil {
		a.Logger.Info("task interrupted by signal")
	}
	stop()

	stopErr := a.shutdown()
	switch {
	case taskErr != nil:
		if stopErr != nil {
			a.Logger.Warn("shutdown after failed task", logger.ErrorFields("shutdown", stopErr))
		}
		return taskErr
	default:
		return stopErr
	}
}

func (a *App[C]) startup(ctx context.Context) error {
	begin := time.Now()
	a.Logger.Debug("starting", logger.Fields("name", a.Name, "version", a.Version))

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	for i, h := range a.onStart {
		if err := h(ctx); err != nil {
			return fmt.Errorf("start hook %d: %w", i, err)
		}
	}
	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return fmt.Errorf("configuration failed: %w", err)
		}
	}

	// A degraded backend still lets the task run; its own errors surface.
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("ready check", logger.ErrorFields("ready_check", err))
	}

	a.Summary.SetStartupDuration(time.Since(begin))
	a.Summary.Log(ctx, a.Components, a.Logger)
	return nil
}

// shutdown runs every OnStop hook and stops the components within the
// graceful timeout, returning the first failure.
func (a *App[C]) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var errs []error
	for i, h := range a.onStop {
		if err := h(ctx); err != nil {
			a.Logger.Error("stop hook failed", logger.ErrorFields("stop_hook", err))
			errs = append(errs, fmt.Errorf("stop hook %d: %w", i, err))
		}
	}
	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("component shutdown failed", logger.ErrorFields("stop_components", err))
		errs = append(errs, err)
	}

	a.Logger.Debug("shutdown complete")
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// ReadyCheck reports every registered component that is not healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status == component.StatusHealthy {
			continue
		}
		entry := h.Name + "=" + string(h.Status)
		if h.Message != "" {
			entry += " (" + h.Message + ")"
		}
		unhealthy = append(unhealthy, entry)
	}
	if len(unhealthy) > 0 {
		return errors.New("unhealthy components: " + strings.Join(unhealthy, ", "))
	}
	return nil
}
