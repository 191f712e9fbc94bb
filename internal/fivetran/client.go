// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package fivetran

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/mia-platform/fivetran-sync/internal/info"
	"github.com/mia-platform/fivetran-sync/internal/logger"
)

const (
	// DefaultBaseURL is the public Fivetran REST API endpoint.
	DefaultBaseURL = "https://api.fivetran.com"

	acceptHeaderValue = "application/json;version=2"
	loggerName        = "fivetran-sync:client"
)

// ClientConfig holds everything needed to talk with the Fivetran API.
type ClientConfig struct {
	BaseURL   string
	APIKey    string
	APISecret string
	Transport TransportOptions
}

// Response carries the metadata of a successful API call.
type Response struct {
	StatusCode int
	Header     http.Header
}

// Client sends authenticated JSON requests to the Fivetran API.
// It is safe for concurrent use.
type Client struct {
	baseURL   *url.URL
	apiKey    string
	apiSecret string

	client  *http.Client
	limiter *rate.Limiter
}

// NewClient validates config and returns a ready to use Client.
func NewClient(config ClientConfig) (*Client, error) {
	switch {
	case config.APIKey == "":
		return nil, errMissingAPIKey
	case config.APISecret == "":
		return nil, errMissingAPISecret
	}

	rawURL := config.BaseURL
	if rawURL == "" {
		rawURL = DefaultBaseURL
	}

	baseURL, err := url.Parse(strings.TrimSuffix(rawURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	httpClient, err := config.Transport.httpClient()
	if err != nil {
		return nil, fmt.Errorf("invalid proxy url: %w", err)
	}

	return &Client{
		baseURL:   baseURL,
		apiKey:    config.APIKey,
		apiSecret: config.APISecret,
		client:    httpClient,
		limiter:   config.Transport.limiter(),
	}, nil
}

// Do sends a request to path, relative to the configured base URL. A non nil body
// is encoded as JSON. On a 2xx response the body, if any, is decoded into out; an
// empty body leaves out untouched.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) (*Response, error) {
	log := logger.FromContext(ctx).WithName(loggerName)

	var bodyReader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), bodyReader)
	if err != nil {
		return nil, &TransportError{Cause: err}
	}

	request.SetBasicAuth(c.apiKey, c.apiSecret)
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", acceptHeaderValue)
	request.Header.Set("User-Agent", info.UserAgent())

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Cause: err}
		}
	}

	log.Trace("sending request", "method", method, "path", path)
	resp, err := c.client.Do(request)
	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Cause: err}
	}

	log.Trace("received response", "method", method, "path", path, "statusCode", resp.StatusCode)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, errorFromResponse(resp.StatusCode, responseBody)
	}

	if err := decode(responseBody, out); err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
	}, nil
}

// decode unmarshals data into out, unknown fields are ignored.
func decode(data []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &DecodeError{Cause: err}
	}

	return nil
}
