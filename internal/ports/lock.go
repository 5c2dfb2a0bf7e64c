package ports

// RunLockPort is the advisory lock serializing orchestrator runs
// against one manifest. Acquire never blocks: when another run holds
// the lock, it fails immediately with an already-exists error.
type RunLockPort interface {
	Acquire() error
	Release() error
}
