package types

// SnapshotFile is one file captured in a snapshot: the name of the copy
// inside the snapshot directory and the live path it restores to.
type SnapshotFile struct {
	Name   string `yaml:"name"`
	Target string `yaml:"target"`
}

// Snapshot is an immutable backup of the manifest and any auxiliary
// files, taken before mutation. The first file is always the manifest.
// Never modified after creation; restore reproduces every file
// byte-for-byte.
type Snapshot struct {
	ID        string         `yaml:"id"`
	CreatedAt string         `yaml:"created_at"`
	Files     []SnapshotFile `yaml:"files"`

	// Dir is the snapshot directory on disk. Runtime-only.
	Dir string `yaml:"-"`
}
