// Package testutil provides helpers for integration tests that exercise
// the real filesystem adapters against temporary directories.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// WriteManifest writes a manifest YAML file with the given package
// pins and returns its path.
func WriteManifest(t *testing.T, dir string, packages map[string]string) string {
	t.Helper()
	doc := map[string]any{"packages": packages}
	data, err := yaml.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(dir, "deps.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// WriteIndex writes a static version index YAML file mapping package
// names to their latest versions and returns its path.
func WriteIndex(t *testing.T, dir string, latest map[string]string) string {
	t.Helper()
	doc := map[string]any{"packages": latest}
	data, err := yaml.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(dir, "index.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// ReadPins loads a manifest YAML file and returns its package pins.
func ReadPins(t *testing.T, path string) map[string]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc struct {
		Packages map[string]string `yaml:"packages"`
	}
	require.NoError(t, yaml.Unmarshal(data, &doc))
	return doc.Packages
}
