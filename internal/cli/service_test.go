package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depsync/internal/adapters"
)

func TestNewVersionSourceRequiresOne(t *testing.T) {
	_, err := newVersionSource(t.TempDir(), sourceOptions{})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestNewVersionSourceMutuallyExclusive(t *testing.T) {
	_, err := newVersionSource(t.TempDir(), sourceOptions{Index: "index.yaml", Registry: "http://localhost"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestNewVersionSourceMissingIndexFile(t *testing.T) {
	_, err := newVersionSource(t.TempDir(), sourceOptions{Index: filepath.Join(t.TempDir(), "gone.yaml")})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestNewVersionSourceIndexFile(t *testing.T) {
	dir := t.TempDir()
	index := filepath.Join(dir, "index.yaml")
	require.NoError(t, os.WriteFile(index, []byte("packages: {}\n"), 0o644))

	source, err := newVersionSource(dir, sourceOptions{Index: index})
	require.NoError(t, err)
	assert.IsType(t, &adapters.VersionIndexFileAdapter{}, source)
}

func TestNewVersionSourceRegistry(t *testing.T) {
	source, err := newVersionSource(t.TempDir(), sourceOptions{
		Registry: "http://localhost:9999",
		CacheTTL: time.Hour,
	})
	require.NoError(t, err)
	assert.IsType(t, &adapters.VersionHTTPAdapter{}, source)
}

func TestNewVerifierDefaultsToNoop(t *testing.T) {
	verifier, err := newVerifier("  ", "")
	require.NoError(t, err)
	assert.IsType(t, adapters.NoopVerifier{}, verifier)

	verifier, err = newVerifier("make test", "/work")
	require.NoError(t, err)
	assert.IsType(t, adapters.ExecVerifierAdapter{}, verifier)
}

func TestNewAppServiceWiresAllPorts(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "deps.yaml")
	index := filepath.Join(dir, "index.yaml")
	require.NoError(t, os.WriteFile(index, []byte("packages: {}\n"), 0o644))

	service, err := newAppService(manifest, sourceOptions{Index: index}, "true", "")
	require.NoError(t, err)
	assert.NotNil(t, service.Manifest)
	assert.NotNil(t, service.Versions)
	assert.NotNil(t, service.Backups)
	assert.NotNil(t, service.Verifier)
	assert.NotNil(t, service.Reports)
	assert.NotNil(t, service.Lock)
}
