// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package syncer triggers Fivetran connector syncs and waits for the completion
// of the sync cycle they started.
//
// A completion is detected by comparing the connector completed date captured
// before the trigger with the one reported by every poll: only a strictly newer
// date ends the wait.
package syncer
