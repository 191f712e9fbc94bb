// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package syncer

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultMaxDuration is the default time spent waiting for a sync to complete.
	DefaultMaxDuration = 60 * time.Minute
)

var (
	// ErrInvalidRequest reports a Request that cannot be executed.
	ErrInvalidRequest = errors.New("invalid sync request")
)

// Request describes a single sync to run.
type Request struct {
	// ConnectorID identifies the connector to sync.
	ConnectorID string
	// Force cancels a running sync and restarts it, otherwise the sync starts only if the connector is idle.
	Force bool
	// Wait blocks until the triggered sync completes.
	Wait bool
	// MaxDuration bounds the wait for the sync completion.
	MaxDuration time.Duration
}

// NewRequest returns a Request for connectorID with the default values.
func NewRequest(connectorID string) Request {
	return Request{
		ConnectorID: connectorID,
		Wait:        true,
		MaxDuration: DefaultMaxDuration,
	}
}

// Validate reports whether the request can be executed.
func (r Request) Validate() error {
	if r.ConnectorID == "" {
		return fmt.Errorf("%w: connector id is required", ErrInvalidRequest)
	}

	if r.ConnectorID == "." || r.ConnectorID == ".." {
		return fmt.Errorf("%w: connector id %q is not a valid path segment", ErrInvalidRequest, r.ConnectorID)
	}

	if r.MaxDuration < 0 {
		return fmt.Errorf("%w: max duration cannot be negative", ErrInvalidRequest)
	}

	return nil
}
