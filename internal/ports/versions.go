package ports

import "context"

// VersionSourcePort resolves the latest known version for a package.
type VersionSourcePort interface {
	// Resolve returns (version, true) when the source knows a latest
	// version for the package, and ("", false) when it does not.
	// Transient fetch failures surface as ("", false, nil) after any
	// cache fallback; the caller treats "not found" as "no update
	// available", never as a run-aborting error.
	Resolve(ctx context.Context, name string) (string, bool, error)
}
