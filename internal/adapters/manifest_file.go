package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"depsync/internal/ports"
	"depsync/internal/types"
)

// manifestFile is the on-disk YAML shape of a manifest.
type manifestFile struct {
	Packages map[string]string              `yaml:"packages"`
	Schemes  map[string]types.VersionScheme `yaml:"schemes,omitempty"`
}

type ManifestFileAdapter struct{}

func NewManifestFileAdapter() ManifestFileAdapter {
	return ManifestFileAdapter{}
}

func (a ManifestFileAdapter) Load(path string) (types.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.Manifest{}, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("manifest file not found").
				WithCause(err)
		}
		return types.Manifest{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read manifest file").
			WithCause(err)
	}
	var file manifestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return types.Manifest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("manifest file is not valid YAML").
			WithCause(err)
	}
	if file.Packages == nil {
		return types.Manifest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("manifest file has no packages mapping")
	}
	entries := make([]types.ManifestEntry, 0, len(file.Packages))
	for name, version := range file.Packages {
		scheme, err := resolveScheme(file.Schemes, name)
		if err != nil {
			return types.Manifest{}, err
		}
		entries = append(entries, types.ManifestEntry{
			Name:    name,
			Version: version,
			Scheme:  scheme,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return types.Manifest{Entries: entries}, nil
}

func resolveScheme(schemes map[string]types.VersionScheme, name string) (types.VersionScheme, error) {
	scheme, ok := schemes[name]
	if !ok || scheme == "" {
		return types.VersionSchemeSemver, nil
	}
	switch scheme {
	case types.VersionSchemeSemver, types.VersionSchemeApt, types.VersionSchemePip:
		return scheme, nil
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown version scheme %q for package %s", scheme, name))
	}
}

// Save writes the manifest to path via a temp file in the same directory
// followed by a rename, so a crash mid-write never leaves a half-written
// manifest behind.
func (a ManifestFileAdapter) Save(manifest types.Manifest, path string) error {
	file := manifestFile{Packages: map[string]string{}}
	for _, entry := range manifest.Entries {
		file.Packages[entry.Name] = entry.Version
		if entry.Scheme != "" && entry.Scheme != types.VersionSchemeSemver {
			if file.Schemes == nil {
				file.Schemes = map[string]types.VersionScheme{}
			}
			file.Schemes[entry.Name] = entry.Scheme
		}
	}
	data, err := yaml.Marshal(file)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to serialize manifest").
			WithCause(err)
	}
	return atomicWriteFile(path, data)
}

// atomicWriteFile writes data to a temp file colocated with path and
// renames it into place. The rename is atomic on POSIX filesystems.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create temp file").
			WithCause(err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write temp file").
			WithCause(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to close temp file").
			WithCause(err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to chmod temp file").
			WithCause(err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to rename temp file into place").
			WithCause(err)
	}
	return nil
}

var _ ports.ManifestStorePort = ManifestFileAdapter{}
