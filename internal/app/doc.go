// Package app wires the dashboard together and manages its lifecycle.
//
// New loads configuration-driven collaborators in order: paths, telemetry,
// the data source (loaded once), then services, router and HTTP server.
// Assemble does the wiring alone and is what tests use.
//
// Run serves until its context is cancelled and then shuts down the HTTP
// server, the open WebSocket sessions and the telemetry providers. The
// package never calls os.Exit; the command decides how to report errors.
package app
