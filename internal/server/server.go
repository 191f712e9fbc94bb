// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/mia-platform/fivetran-sync/internal/info"
	"github.com/mia-platform/fivetran-sync/internal/logger"
	"github.com/mia-platform/fivetran-sync/internal/syncer"
)

const (
	loggerName = "fivetran-sync:server"

	statusRoutesPrefix = "/-/"
	syncRoutePath      = "/connectors/:connectorId/sync"
)

// SyncExecutor runs a connector sync request to its terminal outcome.
type SyncExecutor interface {
	Execute(ctx context.Context, request syncer.Request) (*syncer.Outcome, error)
}

type Server interface {
	Start() error
	Stop() error
	StartAsync(ctx context.Context)
}

var _ Server = &impServer{}

type impServer struct {
	config

	app    *fiber.App
	cancel context.CancelFunc
}

var (
	ErrServerListen   = errors.New("server listen error")
	ErrServerShutdown = errors.New("server shutdown error")
)

// NewServer reads its configuration from the environment and returns a server
// that triggers syncs through executor. When metricsHandler is not nil it is
// exposed on the metrics status route.
// Syncs started by the server are cancelled when ctx is done or the server is stopped.
func NewServer(ctx context.Context, executor SyncExecutor, metricsHandler http.Handler) (Server, error) {
	cfg, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	return &impServer{
		app:    newApp(ctx, cfg, executor, metricsHandler),
		config: *cfg,
		cancel: cancel,
	}, nil
}

func newApp(ctx context.Context, cfg *config, executor SyncExecutor, metricsHandler http.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               info.AppName,
		DisableStartupMessage: cfg.DisableStartupMessage,
		ErrorHandler:          errorHandler,
	})

	log := logger.FromContext(ctx)
	app.Use(lifecycleContext(ctx))
	app.Use(logger.RequestMiddlewareLogger(log, []string{statusRoutesPrefix}))

	statusRoutes(app, info.AppName, info.Version)
	if metricsHandler != nil {
		app.Get(statusRoutesPrefix+"metrics", adaptor.HTTPHandler(metricsHandler))
	}

	app.Post(syncRoutePath, syncHandler(executor))
	return app
}

func (s *impServer) Start() error {
	address := net.JoinHostPort(s.HTTPHost, strconv.Itoa(s.HTTPPort))
	if err := s.app.Listen(address); err != nil {
		return fmt.Errorf("%w: %w", ErrServerListen, err)
	}
	return nil
}

func (s *impServer) Stop() error {
	s.cancel()
	if err := s.app.Shutdown(); err != nil {
		return fmt.Errorf("%w: %w", ErrServerShutdown, err)
	}
	return nil
}

func (s *impServer) StartAsync(ctx context.Context) {
	log := logger.FromContext(ctx).WithName(loggerName)
	go func() {
		if err := s.Start(); err != nil {
			log.Error(err.Error())
		}
	}()
}

// lifecycleContext makes ctx the parent of every request user context, so handlers
// stop their work when the server goes down.
func lifecycleContext(ctx context.Context) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandler renders every error returned by a handler with the same json shape.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	return c.Status(code).JSON(errorResponse{
		StatusCode: code,
		Error:      http.StatusText(code),
		Message:    err.Error(),
	})
}

type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}
