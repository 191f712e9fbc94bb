// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mia-platform/fivetran-sync/internal/config"
	"github.com/mia-platform/fivetran-sync/internal/fivetran"
	"github.com/mia-platform/fivetran-sync/internal/syncer"
)

var (
	errNoArguments = errors.New("no connector id provided")
)

// handleError will do custom print error handling based on the type of error received.
// it will return nil if the command must return 0 exit code, otherwise it will return
// the original error.
func handleError(cmd *cobra.Command, err error) error {
	switch {
	case errors.Is(err, errNoArguments):
		_ = cmd.Usage() // do not check error as we cannot do much about it
		return nil
	case errors.Is(err, syncer.ErrInvalidRequest):
		cmd.PrintErrln(err)
		_ = cmd.Usage() // do not check error as we cannot do much about it
		return err
	default:
		cmd.PrintErrln(err)
		return err
	}
}

// newOrchestrator builds an orchestrator talking with the api described by the
// configuration file at configPath and by the environment.
func newOrchestrator(configPath string, options ...syncer.Option) (*syncer.Orchestrator, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	client, err := fivetran.NewClient(cfg.ClientConfig())
	if err != nil {
		return nil, err
	}

	return syncer.NewFromClient(client, options...), nil
}
