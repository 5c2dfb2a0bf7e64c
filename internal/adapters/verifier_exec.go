package adapters

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"depsync/internal/ports"
)

// ExecVerifierAdapter runs a shell command as the verification step.
// The command runs in its own process group so a timeout can kill the
// whole tree, not just the shell. A timeout or non-zero exit is a
// verification failure, never a pass.
type ExecVerifierAdapter struct {
	Command string
	Dir     string
}

func NewExecVerifierAdapter(command string, dir string) (ExecVerifierAdapter, error) {
	if strings.TrimSpace(command) == "" {
		return ExecVerifierAdapter{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("verification command is empty")
	}
	return ExecVerifierAdapter{Command: command, Dir: dir}, nil
}

func (a ExecVerifierAdapter) Verify(ctx context.Context, timeout time.Duration) (bool, error) {
	runCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(runCtx, "sh", "-c", a.Command)
	cmd.Dir = a.Dir
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		// Negative pid signals the whole process group.
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = 5 * time.Second
	output, err := cmd.CombinedOutput()
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		log.Ctx(ctx).Error().
			Str("command", a.Command).
			Dur("timeout", timeout).
			Msg("verification timed out, process group killed")
		return false, nil
	}
	if err != nil {
		log.Ctx(ctx).Warn().
			Str("command", a.Command).
			Str("output", strings.TrimSpace(string(output))).
			AnErr("cause", err).
			Msg("verification command failed")
		return false, nil
	}
	log.Ctx(ctx).Debug().Str("command", a.Command).Msg("verification passed")
	return true, nil
}

// NoopVerifier passes unconditionally. Used when no verification
// command is configured; the pass is logged so an operator can tell
// the gate was not exercised.
type NoopVerifier struct{}

func (NoopVerifier) Verify(ctx context.Context, _ time.Duration) (bool, error) {
	log.Ctx(ctx).Warn().Msg("no verification command configured, treating candidate as verified")
	return true, nil
}

var _ ports.VerifierPort = ExecVerifierAdapter{}
var _ ports.VerifierPort = NoopVerifier{}
