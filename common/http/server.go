package http

import (
	"slices"
	"time"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"

	"github.com/muliswilliam/vending-machine/common/http/middleware"
)

// Options configures NewApp. The zero value gives an untraced app logging to
// the logrus standard logger.
type Options struct {
	Name   string
	Logger *logrus.Logger
	// Tracing wraps every request except probes in an otelfiber server span.
	Tracing bool
	// ProbePaths are neither traced nor access-logged.
	ProbePaths []string
}

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 10 * time.Second
	idleTimeout  = 60 * time.Second
	bodyLimit    = 64 << 10
)

var corsConfig = cors.Config{
	AllowOrigins: "*",
	AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
	AllowHeaders: "Origin, Content-Type, Accept, " + middleware.HeaderRole + ", " + middleware.HeaderRequestID,
}

// NewApp builds the Fiber app shared by the service and its tests. Requests
// pass through tracing, request ids, the access log, panic recovery and CORS,
// in that order; errors are rendered by middleware.ErrorHandler.
func NewApp(opts Options) *fiber.App {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	probes := opts.ProbePaths
	if probes == nil {
		probes = []string{"/health"}
	}
	isProbe := func(c *fiber.Ctx) bool { return slices.Contains(probes, c.Path()) }

	app := fiber.New(fiber.Config{
		AppName:               opts.Name,
		ReadTimeout:           readTimeout,
		WriteTimeout:          writeTimeout,
		IdleTimeout:           idleTimeout,
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	if opts.Tracing {
		app.Use(otelfiber.Middleware(otelfiber.WithNext(isProbe)))
	}
	app.Use(middleware.RequestID())
	app.Use(middleware.AccessLog(logger, isProbe))
	app.Use(middleware.Recovery(logger))
	app.Use(cors.New(corsConfig))
	return app
}
