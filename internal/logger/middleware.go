// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	forwardedForHeaderKey = "x-forwarded-for"
	requestIDHeaderName   = "x-request-id"
	requestIDLogKey       = "reqId"
	connectorIDParam      = "connectorId"

	IncomingRequestMessage  = "incoming request"
	RequestCompletedMessage = "request completed"
)

// httpRequest is the request part of the access log lines.
type httpRequest struct {
	Method    string `json:"method"`
	Path      string `json:"path"`
	UserAgent string `json:"userAgent,omitempty"`
	ClientIP  string `json:"clientIp,omitempty"`
}

// httpResponse is the response part of the request completed log line.
type httpResponse struct {
	StatusCode int `json:"statusCode"`
	Bytes      int `json:"bytes"`
}

// GetReqID returns the request id sent by the client or a new random one.
func GetReqID(c *fiber.Ctx) string {
	if requestID := c.Get(requestIDHeaderName); requestID != "" {
		return requestID
	}
	// Generate a random uuid string. e.g. 16c9c1f2-c001-40d3-bbfe-48857367e7b5
	requestID, err := uuid.NewRandom()
	if err != nil {
		panic(fmt.Errorf("error generating request id: %w", err))
	}
	return requestID.String()
}

func requestFields(c *fiber.Ctx) httpRequest {
	return httpRequest{
		Method:    c.Method(),
		Path:      c.Path(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
		ClientIP:  c.Get(forwardedForHeaderKey, c.IP()),
	}
}

// responseFields reads the status and size of the response. A handler error has not
// been rendered by the error handler yet, so its code and message are used instead.
func responseFields(c *fiber.Ctx, handlerErr error) httpResponse {
	var fiberErr *fiber.Error
	if errors.As(handlerErr, &fiberErr) {
		return httpResponse{StatusCode: fiberErr.Code, Bytes: len(fiberErr.Message)}
	}

	return httpResponse{StatusCode: c.Response().StatusCode(), Bytes: len(c.Response().Body())}
}

func logRequestCompleted(c *fiber.Ctx, logger Logger, handlerErr error, startTime time.Time) {
	args := []any{
		"request", requestFields(c),
		"response", responseFields(c, handlerErr),
		"responseTime", float64(time.Since(startTime).Milliseconds()),
	}
	if connectorID := c.Params(connectorIDParam); connectorID != "" {
		args = append(args, connectorIDParam, strings.Clone(connectorID))
	}

	logger.WithName("request_completed").Info(RequestCompletedMessage, args...)
}

// RequestMiddlewareLogger is a fiber middleware to log all requests.
// It logs the incoming request and its completion with the request latency and the
// connector of the sync route. The request logger, tagged with the request id, is
// stored in the user context so handlers and the sync orchestrator log under the same id.
func RequestMiddlewareLogger(logger Logger, excludedPrefix []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, prefix := range excludedPrefix {
			if strings.HasPrefix(c.Path(), prefix) {
				return c.Next()
			}
		}

		start := time.Now()

		requestID := GetReqID(c)
		c.Set(requestIDHeaderName, requestID)
		requestLogger := logger.With(requestIDLogKey, requestID)
		c.SetUserContext(WithContext(c.UserContext(), requestLogger))

		requestLogger.WithName("incoming_request").Trace(IncomingRequestMessage, "request", requestFields(c))
		err := c.Next()
		logRequestCompleted(c, requestLogger, err, start)

		return err
	}
}
