// Package services holds cross-cutting helpers shared by stage
// implementations: sentinel error markers with a wrap helper for consistent
// failure classification, and context annotations (project, stage, run id)
// that the logging package turns into structured fields.
package services
