// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package fivetran

import (
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// TransportOptions tunes how requests reach the Fivetran API.
type TransportOptions struct {
	// Timeout bounds every single request, zero means no timeout.
	Timeout time.Duration
	// ProxyURL forces an explicit proxy, when empty the proxy is read from the environment.
	ProxyURL string
	// RequestsPerSecond throttles outgoing requests, zero disables throttling.
	RequestsPerSecond float64
	// Burst is the number of requests allowed to exceed RequestsPerSecond at once.
	Burst int
}

// httpClient builds the http.Client described by the options.
func (o TransportOptions) httpClient() (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if o.ProxyURL != "" {
		proxyURL, err := url.Parse(o.ProxyURL)
		if err != nil {
			return nil, err
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &http.Client{
		Timeout:   o.Timeout,
		Transport: transport,
	}, nil
}

// limiter returns the rate limiter described by the options or nil when throttling is disabled.
func (o TransportOptions) limiter() *rate.Limiter {
	if o.RequestsPerSecond <= 0 {
		return nil
	}

	burst := o.Burst
	if burst < 1 {
		burst = 1
	}

	return rate.NewLimiter(rate.Limit(o.RequestsPerSecond), burst)
}
