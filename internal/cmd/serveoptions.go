// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"context"
	"net/http"
	"time"

	"github.com/mia-platform/fivetran-sync/internal/logger"
	"github.com/mia-platform/fivetran-sync/internal/metrics"
	"github.com/mia-platform/fivetran-sync/internal/server"
	"github.com/mia-platform/fivetran-sync/internal/syncer"
)

const serveLoggerName = "fivetran-sync:serve"

// serverFactoryFunc builds the http server used by the serve command.
type serverFactoryFunc func(ctx context.Context, executor server.SyncExecutor, metricsHandler http.Handler) (server.Server, error)

var serverFactory serverFactoryFunc = server.NewServer

// serveOptions holds the options set for the current serve command.
type serveOptions struct {
	configPath   string
	pollInterval time.Duration
	newServer    serverFactoryFunc
}

// execute runs the http trigger server until ctx is cancelled or the server fails.
func (o *serveOptions) execute(ctx context.Context) error {
	log := logger.FromContext(ctx).WithName(serveLoggerName)

	collector, err := metrics.NewSyncCollector()
	if err != nil {
		return err
	}

	orchestrator, err := newOrchestrator(o.configPath,
		syncer.WithPollInterval(o.pollInterval),
		syncer.WithObserver(collector),
	)
	if err != nil {
		return err
	}

	srv, err := o.newServer(ctx, orchestrator, collector.Handler())
	if err != nil {
		return err
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		log.Info("shutting down server")
		if err := srv.Stop(); err != nil {
			return err
		}
		return <-errChan
	}
}
