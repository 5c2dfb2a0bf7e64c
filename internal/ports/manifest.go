package ports

import "depsync/internal/types"

// ManifestStorePort loads and persists the dependency manifest.
type ManifestStorePort interface {
	// Load reads and parses the manifest at path. Returns a not-found
	// error when the file is absent and an invalid-argument error when
	// it is not valid structured data.
	Load(path string) (types.Manifest, error)

	// Save writes the manifest via temp-file-then-rename so a crash
	// mid-write never leaves a half-written file. This contract is
	// load-bearing for the orchestrator's rollback guarantee.
	Save(manifest types.Manifest, path string) error
}
