// Package services implements the dashboard use cases on top of the
// loaded pipeline, between the transports (HTTP, WebSocket, CLI) and the
// dataprocessing, charts and exporter packages.
//
// # Services
//
//   - DashboardService: filter criteria resolution, the five visualization
//     modes, SVG and PDF charts and report exports
//   - HealthService: liveness, readiness and version information
//
// # Criteria Resolution
//
// Clients send a CriteriaRequest. Omitted fields take the dashboard
// defaults: the full date range of the source, every commodity and the
// buy rate. An explicitly empty commodity list selects none.
//
//	c, err := svc.Criteria(services.CriteriaRequest{From: "2024-01-01", Rate: "sell"})
//	if err != nil {
//	    return err // validator.ValidationErrors for malformed fields
//	}
//	res, err := svc.Run(ctx, c, domain.ModeCorrelation)
//
// Services are safe for concurrent use; the record set is read-only after
// startup.
package services
