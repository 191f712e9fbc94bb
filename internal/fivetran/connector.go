// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package fivetran

import (
	"encoding/json"
	"maps"
	"time"
)

// knownConnectorFields lists the JSON keys mapped to explicit Connector fields.
// Everything else ends up in Connector.Properties.
var knownConnectorFields = []string{
	"id",
	"name",
	"group_id",
	"connector_type_id",
	"paused",
	"version",
	"status",
	"daily_sync_time",
	"succeeded_at",
	"failed_at",
	"created_at",
	"sync_frequency",
	"pause_after_trial",
	"connected_by",
	"setup_tests",
	"source_sync_details",
	"schedule_type",
}

// Alert is a task or warning reported by a connector.
type Alert struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// SetupTestResult is the result of one of the connector setup tests.
type SetupTestResult struct {
	Title   string `json:"title,omitempty"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// ConnectorStatus describes the current state of a connector as reported by Fivetran.
type ConnectorStatus struct {
	Tasks            []Alert `json:"tasks,omitempty"`
	Warnings         []Alert `json:"warnings,omitempty"`
	SchemaStatus     string  `json:"schema_status,omitempty"`
	UpdateState      string  `json:"update_state,omitempty"`
	SetupState       string  `json:"setup_state,omitempty"`
	SyncState        string  `json:"sync_state,omitempty"`
	IsHistoricalSync *bool   `json:"is_historical_sync,omitempty"`
}

// Connector is a snapshot of a Fivetran connector. A new value is built on every fetch
// and it is never modified afterwards.
type Connector struct {
	ID                string            `json:"id,omitempty"`
	Name              string            `json:"name,omitempty"`
	GroupID           string            `json:"group_id,omitempty"`
	ConnectorTypeID   string            `json:"connector_type_id,omitempty"`
	Paused            *bool             `json:"paused,omitempty"`
	Version           *int              `json:"version,omitempty"`
	Status            *ConnectorStatus  `json:"status,omitempty"`
	DailySyncTime     string            `json:"daily_sync_time,omitempty"`
	SucceededAt       *time.Time        `json:"succeeded_at,omitempty"`
	FailedAt          *time.Time        `json:"failed_at,omitempty"`
	CreatedAt         *time.Time        `json:"created_at,omitempty"`
	SyncFrequency     *int              `json:"sync_frequency,omitempty"`
	PauseAfterTrial   *bool             `json:"pause_after_trial,omitempty"`
	ConnectedBy       string            `json:"connected_by,omitempty"`
	SetupTests        []SetupTestResult `json:"setup_tests,omitempty"`
	SourceSyncDetails any               `json:"source_sync_details,omitempty"`
	ScheduleType      string            `json:"schedule_type,omitempty"`

	// Properties holds every field returned by the API that is not mapped above.
	Properties map[string]any `json:"-"`
}

// CompletedDate returns the end time of the most recent sync cycle, whether it
// succeeded or failed. It returns nil if the connector has never completed a sync.
func (c *Connector) CompletedDate() *time.Time {
	if c.SucceededAt != nil && (c.FailedAt == nil || c.SucceededAt.After(*c.FailedAt)) {
		return c.SucceededAt
	}

	return c.FailedAt
}

// connectorFields breaks the recursion when customizing JSON marshaling.
type connectorFields Connector

// UnmarshalJSON decodes the known fields and collects the remaining ones in Properties.
func (c *Connector) UnmarshalJSON(data []byte) error {
	var fields connectorFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for _, key := range knownConnectorFields {
		delete(raw, key)
	}

	*c = Connector(fields)
	if len(raw) > 0 {
		c.Properties = raw
	}

	return nil
}

// MarshalJSON encodes the known fields and merges back the unmapped Properties.
// Known fields always win over a property with the same name.
func (c Connector) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(connectorFields(c))
	if err != nil {
		return nil, err
	}

	if len(c.Properties) == 0 {
		return data, nil
	}

	var known map[string]any
	if err := json.Unmarshal(data, &known); err != nil {
		return nil, err
	}

	merged := maps.Clone(c.Properties)
	maps.Copy(merged, known)
	return json.Marshal(merged)
}
