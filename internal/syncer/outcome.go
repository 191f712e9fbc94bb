// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package syncer

import (
	"errors"
	"fmt"
	"time"

	"github.com/mia-platform/fivetran-sync/internal/fivetran"
)

var (
	// ErrSyncFailed is matched by every SyncFailedError.
	ErrSyncFailed = errors.New("sync failed")
	// ErrTimeout is matched by every TimeoutError.
	ErrTimeout = errors.New("sync timed out")
)

// Status is the terminal state of a sync.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusTimeout Status = "timeout"
)

// Outcome is the result of an executed Request.
type Outcome struct {
	Status      Status
	ConnectorID string
	// Snapshot is the connector state that ended the wait. Nil on timeout and
	// when the request did not wait.
	Snapshot *fivetran.Connector
	// Elapsed is the time spent waiting for the completion.
	Elapsed time.Duration
}

// Err converts a failed or timed out Outcome into the matching error.
func (o *Outcome) Err() error {
	switch o.Status {
	case StatusFailure:
		return &SyncFailedError{ConnectorID: o.ConnectorID, Snapshot: o.Snapshot}
	case StatusTimeout:
		return &TimeoutError{ConnectorID: o.ConnectorID, Elapsed: o.Elapsed}
	default:
		return nil
	}
}

// SyncFailedError reports a sync cycle that Fivetran marked as failed.
type SyncFailedError struct {
	ConnectorID string
	Snapshot    *fivetran.Connector
}

func (e *SyncFailedError) Error() string {
	message := fmt.Sprintf("connector %q failed", e.ConnectorID)
	if e.Snapshot == nil {
		return message
	}

	if e.Snapshot.FailedAt != nil {
		message += " at " + e.Snapshot.FailedAt.Format(time.RFC3339)
	}

	if status := e.Snapshot.Status; status != nil {
		message += fmt.Sprintf(" (setup state: %q, sync state: %q", status.SetupState, status.SyncState)
		for _, task := range status.Tasks {
			message += fmt.Sprintf(", task %s: %s", task.Code, task.Message)
		}
		message += ")"
	}

	return message
}

func (e *SyncFailedError) Is(target error) bool {
	return target == ErrSyncFailed
}

// TimeoutError reports a sync whose completion was not observed in time.
type TimeoutError struct {
	ConnectorID string
	Elapsed     time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("connector %q did not complete the sync after %s", e.ConnectorID, e.Elapsed.Round(time.Millisecond))
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}
