// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package server

import (
	"github.com/gofiber/fiber/v2"
)

type statusResponse struct {
	Status  string `json:"status"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// statusRoutes registers the liveness and readiness probes.
func statusRoutes(app *fiber.App, name, version string) {
	handler := func(c *fiber.Ctx) error {
		return c.JSON(statusResponse{
			Status:  "OK",
			Name:    name,
			Version: version,
		})
	}

	app.Get(statusRoutesPrefix+"healthz", handler)
	app.Get(statusRoutesPrefix+"ready", handler)
}
