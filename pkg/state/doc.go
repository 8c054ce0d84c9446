// Package state persists local SDK state in a single SQLite database:
// user preferences, the HTTP response cache used by the API transport,
// and the CLI command history.
//
// The database lives next to the config file by default
// (~/.config/rsspot/state.db); an empty path selects an in-memory store
// for tests and ephemeral runs.
package state
