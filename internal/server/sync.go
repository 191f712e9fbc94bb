// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mia-platform/fivetran-sync/internal/logger"
	"github.com/mia-platform/fivetran-sync/internal/syncer"
)

// syncRequestBody is the optional body of the sync route.
type syncRequestBody struct {
	Force       bool   `json:"force"`
	Wait        *bool  `json:"wait"`
	MaxDuration string `json:"maxDuration"`
}

type syncResponseBody struct {
	Status      syncer.Status `json:"status"`
	ConnectorID string        `json:"connectorId"`
	Message     string        `json:"message,omitempty"`
	Elapsed     string        `json:"elapsed,omitempty"`
}

var statusCodes = map[syncer.Status]int{
	syncer.StatusSuccess: fiber.StatusOK,
	syncer.StatusFailure: fiber.StatusConflict,
	syncer.StatusTimeout: fiber.StatusGatewayTimeout,
}

// syncHandler triggers the sync of the connector in the path and answers with its outcome.
func syncHandler(executor SyncExecutor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		log := logger.FromContext(ctx).WithName(loggerName)

		request, err := parseSyncRequest(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		outcome, err := executor.Execute(ctx, request)
		switch {
		case errors.Is(err, syncer.ErrInvalidRequest):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.Is(err, context.Canceled):
			log.Warn("sync interrupted by server shutdown", "connectorId", request.ConnectorID)
			return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
		case err != nil:
			log.Error("sync aborted", "connectorId", request.ConnectorID, "error", err.Error())
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}

		response := syncResponseBody{
			Status:      outcome.Status,
			ConnectorID: outcome.ConnectorID,
		}
		if outcome.Elapsed > 0 {
			response.Elapsed = outcome.Elapsed.String()
		}
		if outcomeErr := outcome.Err(); outcomeErr != nil {
			response.Message = outcomeErr.Error()
		}

		return c.Status(statusCodes[outcome.Status]).JSON(response)
	}
}

func parseSyncRequest(c *fiber.Ctx) (syncer.Request, error) {
	connectorID, err := url.PathUnescape(c.Params("connectorId"))
	if err != nil {
		return syncer.Request{}, fmt.Errorf("invalid connector id: %w", err)
	}

	request := syncer.NewRequest(connectorID)
	if len(c.Body()) == 0 {
		return request, nil
	}

	var body syncRequestBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return syncer.Request{}, fmt.Errorf("invalid request body: %w", err)
	}

	request.Force = body.Force
	if body.Wait != nil {
		request.Wait = *body.Wait
	}

	if body.MaxDuration != "" {
		maxDuration, err := time.ParseDuration(body.MaxDuration)
		if err != nil {
			return syncer.Request{}, fmt.Errorf("invalid maxDuration: %w", err)
		}
		request.MaxDuration = maxDuration
	}

	return request, nil
}
