// Package defaults provides centralized configuration constants shared
// across the application.
//
// This package defines timeout values, retry parameters, and cache
// durations used by the API client, the state store, and the CLI.
// Centralizing these values ensures consistency and makes tuning easier.
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/rackerlabs/rsspot/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.HTTPClientTimeout)
//	defer cancel()
package defaults
