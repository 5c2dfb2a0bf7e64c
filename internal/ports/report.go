package ports

import "depsync/internal/types"

// ReportWriterPort persists the run report. Writing is best-effort
// logging from the orchestrator's point of view: a write failure never
// changes the outcome of the run it describes.
type ReportWriterPort interface {
	// Write persists the sealed report and returns the path it was
	// written to.
	Write(report types.RunReport) (string, error)
}
