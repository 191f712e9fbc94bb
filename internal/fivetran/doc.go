// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package fivetran contains the authenticated client for the Fivetran REST API,
// the connector model and the repository used to read connector snapshots.
package fivetran
