// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package server contains the HTTP trigger server of fivetran-sync.
// It sets up the Fiber application, configures the request logging middleware,
// and exposes the status, metrics and connector sync routes.
package server
