// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mia-platform/fivetran-sync/internal/fivetran"
	"github.com/mia-platform/fivetran-sync/internal/fivetran/fake"
)

// writeConfigFile writes a configuration file pointing to baseURL with the fake
// api credentials and returns its path.
func writeConfigFile(tb testing.TB, baseURL string) string {
	tb.Helper()

	content := "apiKey: " + fake.APIKey + "\n" +
		"apiSecret: " + fake.APISecret + "\n" +
		"baseUrl: " + baseURL + "\n" +
		"transport:\n" +
		"  timeout: 5s\n"

	path := filepath.Join(tb.TempDir(), "fivetran.yaml")
	require.NoError(tb, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// writeFile writes content to a new file and returns its path.
func writeFile(tb testing.TB, name, content string) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), name)
	require.NoError(tb, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func snapshot(tb testing.TB, succeededAt, failedAt string) *fivetran.Connector {
	tb.Helper()

	connector := &fivetran.Connector{Name: "warehouse.postgres"}
	if succeededAt != "" {
		parsed, err := time.Parse(time.RFC3339, succeededAt)
		require.NoError(tb, err)
		connector.SucceededAt = &parsed
	}
	if failedAt != "" {
		parsed, err := time.Parse(time.RFC3339, failedAt)
		require.NoError(tb, err)
		connector.FailedAt = &parsed
	}

	return connector
}
