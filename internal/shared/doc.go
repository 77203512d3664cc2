// Package shared holds helpers used by more than one layer of the
// dashboard and owned by none of them.
//
// testutil: slog capture for log assertions and in-memory record fixtures
// shared by the pipeline, chart, service and transport tests.
package shared
