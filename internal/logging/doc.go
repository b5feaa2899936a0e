// Package logging builds slog loggers for the podpress CLI and pipeline.
//
// It offers a console handler that renders compact key=value lines for
// interactive use and a JSON handler for machine-readable logs. Helpers keep
// attribute keys consistent across packages: every stage logs with the same
// project, stage, and correlation fields so a pipeline run can be traced from
// manifest load to gate decision.
package logging
