// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package fake

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartAndStop(t *testing.T) {
	t.Parallel()

	server := NewFakeServer(t)

	go func() {
		assert.NoError(t, server.Start())
	}()

	<-server.StartedServer()
	require.NoError(t, server.Stop())
	require.NoError(t, server.Stop())
	<-server.StoppedServer()
}

func TestFailingServer(t *testing.T) {
	t.Parallel()

	expectedErr := errors.New("address already in use")
	server := NewFailingServer(t, expectedErr)
	require.ErrorIs(t, server.Start(), expectedErr)
	<-server.StartedServer()
}

func TestStartAsyncSignalsStarted(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(t.Context(), 1*time.Second)
	defer cancel()

	server := NewFakeServer(t)
	server.StartAsync(ctx)
	defer server.Stop()

	select {
	case <-server.StartedServer():
	case <-ctx.Done():
		assert.Fail(t, "context cancelled", "error", ctx.Err())
	}
}
