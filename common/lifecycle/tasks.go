package lifecycle

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ServerTask stops app from accepting connections and waits for in-flight
// requests, up to timeout.
func ServerTask(name string, timeout time.Duration, app *fiber.App) Task {
	return Task{Name: name, Timeout: timeout, Shutdown: app.ShutdownWithContext}
}

// CloserTask runs closer.Close as a shutdown step. Close takes no context, so
// timeout only bounds the steps after it.
func CloserTask(name string, timeout time.Duration, closer interface{ Close() error }) Task {
	return Task{
		Name:     name,
		Timeout:  timeout,
		Shutdown: func(context.Context) error { return closer.Close() },
	}
}
