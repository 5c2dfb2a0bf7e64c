package app

import (
	"context"
	"fmt"
	"time"

	"depsync/internal/ports"
	"depsync/internal/types"
)

// fakeManifestStore keeps one manifest in memory, keyed by path.
type fakeManifestStore struct {
	manifests map[string]types.Manifest
	loadErr   error
	saveErr   error
	saves     int
}

func newFakeManifestStore(path string, entries ...types.ManifestEntry) *fakeManifestStore {
	return &fakeManifestStore{
		manifests: map[string]types.Manifest{path: {Entries: entries}},
	}
}

func (f *fakeManifestStore) Load(path string) (types.Manifest, error) {
	if f.loadErr != nil {
		return types.Manifest{}, f.loadErr
	}
	manifest, ok := f.manifests[path]
	if !ok {
		return types.Manifest{}, fmt.Errorf("no manifest at %s", path)
	}
	return manifest.Clone(), nil
}

func (f *fakeManifestStore) Save(manifest types.Manifest, path string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.manifests[path] = manifest.Clone()
	return nil
}

func (f *fakeManifestStore) version(path string, name string) string {
	version, _ := f.manifests[path].Version(name)
	return version
}

// fakeVersionSource serves latest versions from a map. Names listed in
// errs fail resolution.
type fakeVersionSource struct {
	latest map[string]string
	errs   map[string]error
}

func (f *fakeVersionSource) Resolve(_ context.Context, name string) (string, bool, error) {
	if err, ok := f.errs[name]; ok {
		return "", false, err
	}
	version, ok := f.latest[name]
	return version, ok, nil
}

// fakeBackup snapshots the manifest store state and can replay it.
type fakeBackup struct {
	store      *fakeManifestStore
	path       string
	createErr  error
	restoreErr error
	created    int
	restored   int
	captured   types.Manifest
}

func (f *fakeBackup) Create(_ context.Context, manifestPath string, _ []string) (types.Snapshot, error) {
	if f.createErr != nil {
		return types.Snapshot{}, f.createErr
	}
	f.created++
	f.captured = f.store.manifests[manifestPath].Clone()
	f.path = manifestPath
	return types.Snapshot{ID: fmt.Sprintf("snap-%d", f.created), CreatedAt: "2026-08-30T10:00:00Z"}, nil
}

func (f *fakeBackup) Restore(_ context.Context, _ types.Snapshot) error {
	if f.restoreErr != nil {
		return f.restoreErr
	}
	f.restored++
	f.store.manifests[f.path] = f.captured.Clone()
	return nil
}

func (f *fakeBackup) Get(id string) (types.Snapshot, error) {
	return types.Snapshot{ID: id}, nil
}

func (f *fakeBackup) List() ([]types.Snapshot, error) { return nil, nil }

func (f *fakeBackup) Prune(int) (int, error) { return 0, nil }

type fakeVerifier struct {
	pass  bool
	err   error
	calls int
}

func (f *fakeVerifier) Verify(context.Context, time.Duration) (bool, error) {
	f.calls++
	return f.pass, f.err
}

type fakeReportWriter struct {
	reports []types.RunReport
	err     error
}

func (f *fakeReportWriter) Write(report types.RunReport) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.reports = append(f.reports, report)
	return fmt.Sprintf("/reports/run-%d.json", len(f.reports)), nil
}

type fakeRunLock struct {
	acquireErr error
	acquired   int
	released   int
}

func (f *fakeRunLock) Acquire() error {
	if f.acquireErr != nil {
		return f.acquireErr
	}
	f.acquired++
	return nil
}

func (f *fakeRunLock) Release() error {
	f.released++
	return nil
}

var (
	_ ports.ManifestStorePort = (*fakeManifestStore)(nil)
	_ ports.VersionSourcePort = (*fakeVersionSource)(nil)
	_ ports.BackupPort        = (*fakeBackup)(nil)
	_ ports.VerifierPort      = (*fakeVerifier)(nil)
	_ ports.ReportWriterPort  = (*fakeReportWriter)(nil)
	_ ports.RunLockPort       = (*fakeRunLock)(nil)
)
