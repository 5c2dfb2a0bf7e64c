package adapters

import (
	"context"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"depsync/internal/ports"
	"depsync/internal/shared"
)

// versionIndexFile is the YAML shape of a static version index:
// a single mapping from package name to latest known version.
type versionIndexFile struct {
	Packages map[string]string `yaml:"packages"`
}

// VersionIndexFileAdapter serves latest versions from a static YAML
// index file. Useful for air-gapped environments and hermetic tests.
// The file is read and cached on first resolve.
type VersionIndexFileAdapter struct {
	Path   string
	cached versionIndexFile
	loaded bool
}

func NewVersionIndexFileAdapter(path string) *VersionIndexFileAdapter {
	return &VersionIndexFileAdapter{Path: path}
}

func (a *VersionIndexFileAdapter) Resolve(_ context.Context, name string) (string, bool, error) {
	index, err := a.load()
	if err != nil {
		return "", false, err
	}
	if version, ok := index.Packages[name]; ok && version != "" {
		return version, true, nil
	}
	normalized := shared.NormalizePipName(name)
	if normalized != name {
		if version, ok := index.Packages[normalized]; ok && version != "" {
			return version, true, nil
		}
	}
	return "", false, nil
}

func (a *VersionIndexFileAdapter) load() (versionIndexFile, error) {
	if a.loaded {
		return a.cached, nil
	}
	data, err := os.ReadFile(a.Path)
	if err != nil {
		return versionIndexFile{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("version index file not found").
			WithCause(err)
	}
	var index versionIndexFile
	if err := yaml.Unmarshal(data, &index); err != nil {
		return versionIndexFile{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid version index format").
			WithCause(err)
	}
	if index.Packages == nil {
		index.Packages = map[string]string{}
	}
	a.cached = index
	a.loaded = true
	return index, nil
}

var _ ports.VersionSourcePort = (*VersionIndexFileAdapter)(nil)
