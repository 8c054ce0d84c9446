// Package spot is the API client for the spot compute platform.
//
// A Client is built from a connection profile and groups the typed
// operations into services:
//
//	client := spot.New(profile, spot.WithStateStore(store))
//	classes, err := client.ServerClasses.List(ctx, spot.ListOptions{Region: "us-central-dfw-1"})
//	records, err := client.Pricing.Catalog(ctx, "us-central-dfw-1", "uk-lon-1")
//
// All services share one transport that handles bearer authentication
// with lazy token refresh, client-side rate limiting, retries with
// exponential backoff, and transparent GET response caching in the local
// state store.
package spot
