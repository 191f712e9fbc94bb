// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package fivetran

import (
	"context"
	"net/http"
	"net/url"
)

// Requester is the subset of Client used by Repository.
type Requester interface {
	Do(ctx context.Context, method, path string, body, out any) (*Response, error)
}

var _ Requester = &Client{}

// Repository reads connectors from the Fivetran API.
type Repository struct {
	client Requester
}

// NewRepository returns a Repository sending its requests through client.
func NewRepository(client Requester) *Repository {
	return &Repository{client: client}
}

// Fetch returns a fresh snapshot of the connector identified by connectorID.
func (r *Repository) Fetch(ctx context.Context, connectorID string) (*Connector, error) {
	var envelope ConnectorResponse
	if _, err := r.client.Do(ctx, http.MethodGet, ConnectorPath(connectorID), nil, &envelope); err != nil {
		return nil, err
	}

	if envelope.Data == nil {
		return nil, &MissingBodyError{Field: "data"}
	}

	return envelope.Data, nil
}

// ConnectorPath returns the API path of a connector.
func ConnectorPath(connectorID string) string {
	return "/v2/connectors/" + url.PathEscape(connectorID)
}

// SyncPath returns the API path used to trigger a connector sync.
func SyncPath(connectorID string) string {
	return ConnectorPath(connectorID) + "/sync"
}
