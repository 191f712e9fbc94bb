// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package fivetran

// ConnectorResponse is the envelope returned when reading a connector.
type ConnectorResponse struct {
	Code    string     `json:"code"`
	Message string     `json:"message"`
	Data    *Connector `json:"data"`
}

// SyncResponse is the envelope returned when a sync is triggered.
type SyncResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SyncRequestBody is the payload sent to trigger a sync.
type SyncRequestBody struct {
	Force bool `json:"force"`
}
