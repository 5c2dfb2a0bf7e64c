package ports

import (
	"context"
	"time"
)

// VerifierPort runs the external build/test step that gates commit
// versus rollback.
type VerifierPort interface {
	// Verify runs the verification step against the candidate state
	// with a hard timeout. A timeout kills the underlying process and
	// counts as a failure, never as a pass. The error return is
	// reserved for infrastructure problems; an ordinary failed build
	// is (false, nil).
	Verify(ctx context.Context, timeout time.Duration) (bool, error)
}
