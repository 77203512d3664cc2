// Package files discovers the report and chart artifacts written to the
// output directory.
//
// Discovery lists what earlier exports left on disk and resolves a
// requested name to a file inside the directory. Only bare names with the
// extensions the exporter and chart renderer produce (.csv, .pdf, .xlsx,
// .svg) are accepted.
//
// Example usage:
//
//	discovery := files.NewDiscovery(paths.OutputDir)
//	artifacts, err := discovery.FindArtifacts()
//	latest, ok := files.GetLatestFile(artifacts)
package files
