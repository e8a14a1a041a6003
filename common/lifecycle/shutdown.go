package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/muliswilliam/vending-machine/common/config"
)

// Task is one step of the shutdown sequence.
type Task struct {
	Name     string
	Timeout  time.Duration
	Shutdown func(context.Context) error
}

// WaitForGracefulShutdown blocks until SIGINT/SIGTERM arrives or ctx is
// cancelled, then runs tasks in order under cfg.ShutdownTotalTimeout.
func WaitForGracefulShutdown(ctx context.Context, cfg *config.Config, logger *logrus.Logger, tasks ...Task) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		logger.WithField("signal", sig.String()).Info("Received shutdown signal, initiating graceful shutdown")
	case <-ctx.Done():
		logger.WithError(ctx.Err()).Info("Context cancelled, initiating graceful shutdown")
	}

	return RunShutdown(cfg.ShutdownTotalTimeout, logger, tasks...)
}

// RunShutdown executes tasks sequentially. Each task gets its own timeout,
// bounded by the overall deadline; once that deadline passes the remaining
// tasks are skipped.
func RunShutdown(total time.Duration, logger *logrus.Logger, tasks ...Task) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), total)
	defer cancel()

	var shutdownErrs error
	for _, task := range tasks {
		if task.Shutdown == nil {
			logger.Debugf("Skipping shutdown for %s (nil function)", task.Name)
			continue
		}

		taskCtx, taskCancel := context.WithTimeout(shutdownCtx, task.Timeout)
		logger.Infof("Shutting down %s (timeout: %s)", task.Name, task.Timeout)
		if err := task.Shutdown(taskCtx); err != nil {
			logger.WithError(err).Errorf("Error during %s shutdown", task.Name)
			shutdownErrs = errors.Join(shutdownErrs, fmt.Errorf("%s shutdown error: %w", task.Name, err))
		} else {
			logger.Infof("%s shutdown complete", task.Name)
		}
		taskCancel()

		if shutdownCtx.Err() != nil {
			logger.Warnf("Overall shutdown timeout (%s) exceeded during %s shutdown, aborting further steps", total, task.Name)
			shutdownErrs = errors.Join(shutdownErrs, fmt.Errorf("overall shutdown timeout exceeded: %w", shutdownCtx.Err()))
			break
		}
	}

	if shutdownErrs != nil {
		logger.WithError(shutdownErrs).Error("Application shutdown completed with errors")
		return shutdownErrs
	}
	logger.Info("Application shutdown completed successfully")
	return nil
}
