package app

import (
	"time"

	"github.com/google/uuid"

	"depsync/internal/ports"
)

// Service wires the orchestrator's collaborators. All fields must be
// set except Lock and Reports, which may be nil for check-only use.
type Service struct {
	Manifest ports.ManifestStorePort
	Versions ports.VersionSourcePort
	Backups  ports.BackupPort
	Verifier ports.VerifierPort
	Reports  ports.ReportWriterPort
	Lock     ports.RunLockPort
	Clock    func() time.Time
	NewRunID func() string
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

func (s Service) runID() string {
	if s.NewRunID != nil {
		return s.NewRunID()
	}
	return uuid.NewString()
}
