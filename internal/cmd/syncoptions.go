// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"context"
	"time"

	"github.com/mia-platform/fivetran-sync/internal/logger"
	"github.com/mia-platform/fivetran-sync/internal/syncer"
)

const syncLoggerName = "fivetran-sync:sync"

// syncOptions holds the options set for the current sync command.
type syncOptions struct {
	configPath   string
	pollInterval time.Duration
	request      syncer.Request
}

// validate validates the sync options and returns an error if something is wrong.
func (o *syncOptions) validate() error {
	if o.request.ConnectorID == "" {
		return errNoArguments
	}

	return o.request.Validate()
}

// execute triggers the connector sync and waits for its outcome when requested.
func (o *syncOptions) execute(ctx context.Context) error {
	log := logger.FromContext(ctx).WithName(syncLoggerName)

	orchestrator, err := newOrchestrator(o.configPath, syncer.WithPollInterval(o.pollInterval))
	if err != nil {
		return err
	}

	outcome, err := orchestrator.Execute(ctx, o.request)
	if err != nil {
		return err
	}

	log.Info("sync finished", "connectorId", outcome.ConnectorID, "status", outcome.Status, "elapsed", outcome.Elapsed.String())
	return outcome.Err()
}
