package cli

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"depsync/internal/adapters"
	"depsync/internal/app"
	"depsync/internal/ports"
)

// stateDirName is the per-manifest working directory holding the
// snapshot store, version cache, and reports.
const stateDirName = ".depsync"

type sourceOptions struct {
	Index    string
	Registry string
	CacheTTL time.Duration
}

// newVersionSource picks the version source adapter: a static index
// file when --index is set, otherwise an HTTP registry endpoint.
func newVersionSource(manifestDir string, opts sourceOptions) (ports.VersionSourcePort, error) {
	index := strings.TrimSpace(opts.Index)
	registry := strings.TrimSpace(opts.Registry)
	switch {
	case index != "" && registry != "":
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("--index and --registry are mutually exclusive")
	case index != "":
		if _, err := os.Stat(index); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("version index file not found").
				WithCause(err)
		}
		return adapters.NewVersionIndexFileAdapter(index), nil
	case registry != "":
		return adapters.NewVersionHTTPAdapter(adapters.VersionHTTPConfig{
			Endpoint: registry,
			CacheDir: filepath.Join(manifestDir, stateDirName, "version-cache"),
			CacheTTL: opts.CacheTTL,
		})
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("a version source is required: set --index or --registry")
	}
}

func newVerifier(command string, dir string) (ports.VerifierPort, error) {
	if strings.TrimSpace(command) == "" {
		return adapters.NoopVerifier{}, nil
	}
	return adapters.NewExecVerifierAdapter(command, dir)
}

// newAppService wires the orchestrator service for one manifest.
func newAppService(manifestPath string, source sourceOptions, verifyCmd string, outputDir string) (app.Service, error) {
	manifestDir := filepath.Dir(manifestPath)
	versions, err := newVersionSource(manifestDir, source)
	if err != nil {
		return app.Service{}, err
	}
	verifier, err := newVerifier(verifyCmd, manifestDir)
	if err != nil {
		return app.Service{}, err
	}
	if strings.TrimSpace(outputDir) == "" {
		outputDir = filepath.Join(manifestDir, stateDirName, "reports")
	}
	return app.Service{
		Manifest: adapters.NewManifestFileAdapter(),
		Versions: versions,
		Backups:  adapters.NewSnapshotDirAdapter(filepath.Join(manifestDir, stateDirName, "snapshots")),
		Verifier: verifier,
		Reports:  adapters.NewReportFileAdapter(outputDir),
		Lock:     adapters.NewFlockRunLock(manifestPath + ".lock"),
	}, nil
}

func resolveDuration(cmd *cobra.Command, value time.Duration, key string, flagName string) time.Duration {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	if viper.IsSet(key) {
		return viper.GetDuration(key)
	}
	return value
}
