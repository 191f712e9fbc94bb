// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package config loads the Fivetran API settings from an optional YAML file
// and from the environment.
package config
