package types

// ManifestEntry is one pinned dependency.
type ManifestEntry struct {
	Name    string
	Version string
	Scheme  VersionScheme
}

// Manifest is the set of pinned dependencies read from a manifest file.
// Entries are sorted by name. A loaded manifest is never mutated; the
// applier produces new Manifest values instead.
type Manifest struct {
	Entries []ManifestEntry
}

// Version returns the pinned version for a package name.
func (m Manifest) Version(name string) (string, bool) {
	for _, entry := range m.Entries {
		if entry.Name == name {
			return entry.Version, true
		}
	}
	return "", false
}

// Clone returns a deep copy of the manifest.
func (m Manifest) Clone() Manifest {
	entries := make([]ManifestEntry, len(m.Entries))
	copy(entries, m.Entries)
	return Manifest{Entries: entries}
}
