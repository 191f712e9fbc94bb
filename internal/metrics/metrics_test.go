// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/fivetran-sync/internal/syncer"
)

func TestObserveOutcome(t *testing.T) {
	t.Parallel()

	collector, err := NewSyncCollector()
	require.NoError(t, err)

	collector.ObserveOutcome("decent_dropsy", &syncer.Outcome{Status: syncer.StatusSuccess, Elapsed: 3 * time.Second}, nil)
	collector.ObserveOutcome("decent_dropsy", &syncer.Outcome{Status: syncer.StatusSuccess, Elapsed: 5 * time.Second}, nil)
	collector.ObserveOutcome("decent_dropsy", &syncer.Outcome{Status: syncer.StatusFailure, Elapsed: time.Second}, nil)
	collector.ObserveOutcome("decent_dropsy", &syncer.Outcome{Status: syncer.StatusTimeout, Elapsed: time.Minute}, nil)
	collector.ObserveOutcome("decent_dropsy", nil, errors.New("boom"))

	assert.InDelta(t, 2, testutil.ToFloat64(collector.runsTotal.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(collector.runsTotal.WithLabelValues("failure")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(collector.runsTotal.WithLabelValues("timeout")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(collector.runsTotal.WithLabelValues(OutcomeError)), 0)

	// errors do not produce a duration sample
	assert.Equal(t, 3, testutil.CollectAndCount(collector.pollDuration))
}

func TestHandler(t *testing.T) {
	t.Parallel()

	collector, err := NewSyncCollector()
	require.NoError(t, err)
	collector.ObserveOutcome("decent_dropsy", &syncer.Outcome{Status: syncer.StatusSuccess, Elapsed: 2 * time.Second}, nil)

	server := httptest.NewServer(collector.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `fivetran_sync_runs_total{outcome="success"} 1`)
	assert.Contains(t, string(body), `fivetran_sync_runs_total{outcome="error"} 0`)
	assert.Contains(t, string(body), `fivetran_sync_poll_duration_seconds_count{outcome="success"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
