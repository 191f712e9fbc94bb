// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package syncer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/fivetran-sync/internal/fivetran"
)

func TestOutcomeErr(t *testing.T) {
	t.Parallel()

	failed := connector("2024-01-01T00:00:00Z", "2024-01-01T00:10:00Z")
	failed.Status = &fivetran.ConnectorStatus{
		SetupState: "connected",
		SyncState:  "scheduled",
		Tasks:      []fivetran.Alert{{Code: "reconnect", Message: "Reconnect the connector"}},
	}

	testCases := map[string]struct {
		outcome     Outcome
		expectedIs  error
		expectedMsg string
	}{
		"success has no error": {
			outcome: Outcome{Status: StatusSuccess, ConnectorID: "decent_dropsy"},
		},
		"failure with snapshot": {
			outcome:     Outcome{Status: StatusFailure, ConnectorID: "decent_dropsy", Snapshot: failed},
			expectedIs:  ErrSyncFailed,
			expectedMsg: `connector "decent_dropsy" failed at 2024-01-01T00:10:00Z (setup state: "connected", sync state: "scheduled", task reconnect: Reconnect the connector)`,
		},
		"failure without snapshot": {
			outcome:     Outcome{Status: StatusFailure, ConnectorID: "decent_dropsy"},
			expectedIs:  ErrSyncFailed,
			expectedMsg: `connector "decent_dropsy" failed`,
		},
		"timeout": {
			outcome:     Outcome{Status: StatusTimeout, ConnectorID: "decent_dropsy", Elapsed: 2*time.Second + 345*time.Microsecond},
			expectedIs:  ErrTimeout,
			expectedMsg: `connector "decent_dropsy" did not complete the sync after 2s`,
		},
	}

	for testName, test := range testCases {
		t.Run(testName, func(t *testing.T) {
			t.Parallel()

			err := test.outcome.Err()
			if test.expectedIs == nil {
				assert.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, test.expectedIs)
			assert.EqualError(t, err, test.expectedMsg)
		})
	}
}
