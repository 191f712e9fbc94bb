// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

const (
	syncCmdUsage = "sync CONNECTOR_ID"
	syncCmdShort = "trigger the sync of a Fivetran connector"
	syncCmdLong  = `Trigger the sync of a Fivetran connector and wait for its completion.
	The command reads the last completion time of the connector, starts a new
	sync and polls the connector until a newer completion is reported or the
	maximum duration has elapsed.

	The command exits with a non zero code if the sync fails, if it does not
	complete in time or if the Fivetran API returns an error.

	The api credentials are read from the configuration file or from the
	FIVETRAN_API_KEY and FIVETRAN_API_SECRET environment variables.`

	syncCmdExample = `# Sync a connector and wait up to one hour for its completion
	fivetran-sync sync decent_dropsy

	# Restart a running sync and wait up to ten minutes
	fivetran-sync sync decent_dropsy --force --max-duration 10m

	# Trigger the sync without waiting
	fivetran-sync sync decent_dropsy --wait=false --config-file fivetran.yaml`

	serveCmdUsage = "serve"
	serveCmdShort = "start the http server for triggering connector syncs"
	serveCmdLong  = `Start an http server exposing a route for triggering connector syncs.
	A POST request to /connectors/CONNECTOR_ID/sync triggers the sync of the
	connector and answers with its outcome once completed.

	The server also exposes the /-/healthz, /-/ready and /-/metrics routes.
	Listening address and port are read from the HTTP_HOST and HTTP_PORT
	environment variables.`

	serveCmdExample = `# Start the server on the default port
	fivetran-sync serve --config-file fivetran.yaml`
)

// SyncCmd returns the "sync" cli command for triggering a connector sync.
func SyncCmd() *cobra.Command {
	flags := &syncFlags{}
	cmd := &cobra.Command{
		Use:     syncCmdUsage,
		Short:   heredoc.Doc(syncCmdShort),
		Long:    heredoc.Doc(syncCmdLong),
		Example: heredoc.Doc(syncCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.toOptions(args)
			if err := opts.validate(); err != nil {
				return handleError(cmd, err)
			}

			if err := opts.execute(cmd.Context()); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}

// ServeCmd returns the "serve" cli command for starting the http trigger server.
func ServeCmd() *cobra.Command {
	flags := &serveFlags{}
	cmd := &cobra.Command{
		Use:     serveCmdUsage,
		Short:   heredoc.Doc(serveCmdShort),
		Long:    heredoc.Doc(serveCmdLong),
		Example: heredoc.Doc(serveCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := flags.toOptions()
			if err := opts.execute(cmd.Context()); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}
