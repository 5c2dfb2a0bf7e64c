package adapters

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"depsync/internal/ports"
	"depsync/internal/types"
)

const latestReportName = "run-report-latest.json"

// ReportFileAdapter writes run reports as timestamped JSON documents
// plus a stable-named copy of the most recent one.
type ReportFileAdapter struct {
	Dir string
}

func NewReportFileAdapter(dir string) ReportFileAdapter {
	return ReportFileAdapter{Dir: dir}
}

func (a ReportFileAdapter) Write(report types.RunReport) (string, error) {
	if strings.TrimSpace(a.Dir) == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("report directory is required")
	}
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create report directory").
			WithCause(err)
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to serialize run report").
			WithCause(err)
	}
	data = append(data, '\n')
	stamp := strings.NewReplacer(":", "", "-", "", "+", "").Replace(report.Timestamp)
	path := filepath.Join(a.Dir, fmt.Sprintf("run-report-%s.json", stamp))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write run report").
			WithCause(err)
	}
	if err := os.WriteFile(filepath.Join(a.Dir, latestReportName), data, 0o644); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write latest run report").
			WithCause(err)
	}
	return path, nil
}

var _ ports.ReportWriterPort = ReportFileAdapter{}
