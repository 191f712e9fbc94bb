// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package fivetran

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrHTTP is matched by every error produced by a non-2xx response.
	ErrHTTP = errors.New("fivetran api error")

	errMissingAPIKey    = errors.New("api key is required")
	errMissingAPISecret = errors.New("api secret is required")
)

// AuthError reports a request rejected because of invalid credentials or missing permissions.
type AuthError struct {
	StatusCode int
	Body       []byte
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("fivetran: invalid credentials or insufficient permissions (status %d): %s", e.StatusCode, e.Body)
}

func (e *AuthError) Is(target error) bool {
	return target == ErrHTTP
}

// NotFoundError reports a request for a resource unknown to Fivetran.
type NotFoundError struct {
	StatusCode int
	Body       []byte
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("fivetran: resource not found (status %d): %s", e.StatusCode, e.Body)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrHTTP
}

// HTTPProtocolError reports any other non-2xx response. Body holds the response
// payload verbatim.
type HTTPProtocolError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPProtocolError) Error() string {
	return fmt.Sprintf("fivetran: unexpected status %d: %s", e.StatusCode, e.Body)
}

func (e *HTTPProtocolError) Is(target error) bool {
	return target == ErrHTTP
}

// TransportError reports a failure in reaching the API (DNS, connection, TLS, timeout).
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return "fivetran: transport error: " + e.Cause.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// DecodeError reports a response body that cannot be decoded into the expected shape.
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string {
	return "fivetran: invalid response body: " + e.Cause.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// MissingBodyError reports a successful response that lacks a required part of its body.
type MissingBodyError struct {
	Field string
}

func (e *MissingBodyError) Error() string {
	if e.Field == "" {
		return "fivetran: missing response body"
	}

	return fmt.Sprintf("fivetran: missing %q in response body", e.Field)
}

// errorFromResponse maps a non-2xx status code to the matching error type.
func errorFromResponse(statusCode int, body []byte) error {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{StatusCode: statusCode, Body: body}
	case http.StatusNotFound:
		return &NotFoundError{StatusCode: statusCode, Body: body}
	default:
		return &HTTPProtocolError{StatusCode: statusCode, Body: body}
	}
}
