// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/fivetran-sync/internal/config"
	"github.com/mia-platform/fivetran-sync/internal/fivetran"
	"github.com/mia-platform/fivetran-sync/internal/server"
	"github.com/mia-platform/fivetran-sync/internal/server/fake"
)

func fakeServerFactory(srv server.Server, err error) serverFactoryFunc {
	return func(_ context.Context, executor server.SyncExecutor, metricsHandler http.Handler) (server.Server, error) {
		if executor == nil || metricsHandler == nil {
			return nil, errors.New("missing server dependencies")
		}
		return srv, err
	}
}

func TestServeOptionsExecute(t *testing.T) {
	t.Parallel()

	configPath := writeConfigFile(t, fivetran.DefaultBaseURL)

	t.Run("stops the server when the context is cancelled", func(t *testing.T) {
		t.Parallel()

		srv := fake.NewFakeServer(t)
		opts := &serveOptions{
			configPath:   configPath,
			pollInterval: time.Second,
			newServer:    fakeServerFactory(srv, nil),
		}

		ctx, cancel := context.WithCancel(t.Context())
		errChan := make(chan error, 1)
		go func() {
			errChan <- opts.execute(ctx)
		}()

		<-srv.StartedServer()
		cancel()
		require.NoError(t, <-errChan)
		<-srv.StoppedServer()
	})

	t.Run("returns the server start error", func(t *testing.T) {
		t.Parallel()

		startErr := errors.New("address already in use")
		opts := &serveOptions{
			configPath: configPath,
			newServer:  fakeServerFactory(fake.NewFailingServer(t, startErr), nil),
		}

		require.ErrorIs(t, opts.execute(t.Context()), startErr)
	})

	t.Run("returns the server creation error", func(t *testing.T) {
		t.Parallel()

		opts := &serveOptions{
			configPath: configPath,
			newServer:  fakeServerFactory(nil, server.ErrEnvVariablesNotValid),
		}

		require.ErrorIs(t, opts.execute(t.Context()), server.ErrEnvVariablesNotValid)
	})

	t.Run("returns the configuration error", func(t *testing.T) {
		t.Parallel()

		opts := &serveOptions{
			configPath: writeFile(t, "empty.yaml", ""),
			newServer:  fakeServerFactory(fake.NewFakeServer(t), nil),
		}

		require.ErrorIs(t, opts.execute(t.Context()), config.ErrMissingCredentials)
	})
}

func TestServeCmdErrorOutput(t *testing.T) {
	t.Parallel()

	cmd := ServeCmd()
	errBuffer := new(bytes.Buffer)
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(errBuffer)
	cmd.SetArgs([]string{"--" + configFileFlagName, writeFile(t, "empty.yaml", "")})

	err := cmd.ExecuteContext(t.Context())
	require.ErrorIs(t, err, config.ErrMissingCredentials)
	assert.Equal(t, err.Error()+"\n", errBuffer.String())
}

func TestServeFlags(t *testing.T) {
	t.Parallel()

	flags := &serveFlags{}
	cmd := &cobra.Command{}
	flags.addFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"-" + configFileFlagShort, "fivetran.yaml", "--" + pollIntervalFlagName, "5s"}))

	opts := flags.toOptions()
	assert.NotNil(t, opts.newServer)
	assert.Equal(t, "fivetran.yaml", opts.configPath)
	assert.Equal(t, 5*time.Second, opts.pollInterval)
}
