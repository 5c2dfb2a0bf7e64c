package ports

import (
	"context"

	"depsync/internal/types"
)

// BackupPort creates and restores immutable snapshots of the manifest
// and any co-versioned auxiliary files.
type BackupPort interface {
	// Create copies the manifest and auxiliary files into a new
	// snapshot. Any copy failure fails the whole snapshot; the caller
	// must then abort before mutating anything.
	Create(ctx context.Context, manifestPath string, auxiliaryPaths []string) (types.Snapshot, error)

	// Restore overwrites the live files with the snapshot contents,
	// byte-for-byte, using atomic renames. A restore failure is fatal
	// and requires operator intervention.
	Restore(ctx context.Context, snapshot types.Snapshot) error

	// Get loads a snapshot by id.
	Get(id string) (types.Snapshot, error)

	// List returns all snapshots, newest first.
	List() ([]types.Snapshot, error)

	// Prune deletes all but the newest keep snapshots.
	Prune(keep int) (int, error)
}
