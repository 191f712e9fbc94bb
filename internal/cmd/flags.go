// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mia-platform/fivetran-sync/internal/syncer"
)

const (
	configFileFlagName  = "config-file"
	configFileFlagShort = "c"
	configFileFlagUsage = "Path to a yaml file containing the Fivetran api configuration"

	forceFlagName  = "force"
	forceFlagUsage = "If set, a running sync is cancelled and restarted, otherwise the sync starts only if the connector is idle"

	waitFlagName    = "wait"
	waitFlagUsage   = "Wait for the completion of the triggered sync"
	defaultWaitFlag = true

	maxDurationFlagName  = "max-duration"
	maxDurationFlagUsage = "Maximum time to wait for the sync completion"

	pollIntervalFlagName  = "poll-interval"
	pollIntervalFlagUsage = "Time to wait between two connector status checks"
)

// syncFlags holds the flags for the "sync" command.
type syncFlags struct {
	configPath   string
	force        bool
	wait         bool
	maxDuration  time.Duration
	pollInterval time.Duration
}

// addFlags adds the cli flags to the cobra command.
func (f *syncFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, configFileFlagName, configFileFlagShort, "", configFileFlagUsage)
	cmd.Flags().BoolVar(&f.force, forceFlagName, false, forceFlagUsage)
	cmd.Flags().BoolVar(&f.wait, waitFlagName, defaultWaitFlag, waitFlagUsage)
	cmd.Flags().DurationVar(&f.maxDuration, maxDurationFlagName, syncer.DefaultMaxDuration, maxDurationFlagUsage)
	cmd.Flags().DurationVar(&f.pollInterval, pollIntervalFlagName, syncer.DefaultPollInterval, pollIntervalFlagUsage)
}

// toOptions converts the sync flags to syncOptions enriching it with the passed arguments.
func (f *syncFlags) toOptions(args []string) *syncOptions {
	connectorID := ""
	if len(args) > 0 {
		connectorID = args[0]
	}

	return &syncOptions{
		configPath:   f.configPath,
		pollInterval: f.pollInterval,
		request: syncer.Request{
			ConnectorID: connectorID,
			Force:       f.force,
			Wait:        f.wait,
			MaxDuration: f.maxDuration,
		},
	}
}

// serveFlags holds the flags for the "serve" command.
type serveFlags struct {
	configPath   string
	pollInterval time.Duration
}

// addFlags adds the cli flags to the cobra command.
func (f *serveFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, configFileFlagName, configFileFlagShort, "", configFileFlagUsage)
	cmd.Flags().DurationVar(&f.pollInterval, pollIntervalFlagName, syncer.DefaultPollInterval, pollIntervalFlagUsage)
}

// toOptions converts the serve flags to serveOptions.
func (f *serveFlags) toOptions() *serveOptions {
	return &serveOptions{
		configPath:   f.configPath,
		pollInterval: f.pollInterval,
		newServer:    serverFactory,
	}
}
