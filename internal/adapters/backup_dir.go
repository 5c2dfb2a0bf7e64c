package adapters

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"depsync/internal/ports"
	"depsync/internal/types"
)

const snapshotMetaFile = "snapshot.yaml"

// SnapshotDirAdapter stores snapshots as one directory per snapshot
// under Root, named by a timestamp-derived id. Each directory holds a
// verbatim copy of the manifest, verbatim copies of the auxiliary
// files, and a snapshot.yaml metadata document mapping copies back to
// their live paths.
type SnapshotDirAdapter struct {
	Root  string
	Clock func() time.Time
}

func NewSnapshotDirAdapter(root string) SnapshotDirAdapter {
	return SnapshotDirAdapter{Root: root, Clock: time.Now}
}

func (a SnapshotDirAdapter) Create(ctx context.Context, manifestPath string, auxiliaryPaths []string) (types.Snapshot, error) {
	now := time.Now().UTC()
	if a.Clock != nil {
		now = a.Clock().UTC()
	}
	sources := append([]string{manifestPath}, auxiliaryPaths...)
	contents := make([][]byte, 0, len(sources))
	for _, source := range sources {
		data, err := os.ReadFile(source)
		if err != nil {
			return types.Snapshot{}, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("backup failed: cannot read %s", source)).
				WithCause(err)
		}
		contents = append(contents, data)
	}
	id := buildSnapshotID(now, contents)
	dir := filepath.Join(a.Root, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return types.Snapshot{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("backup failed: cannot create snapshot directory").
			WithCause(err)
	}
	snapshot := types.Snapshot{
		ID:        id,
		CreatedAt: now.Format(time.RFC3339),
		Dir:       dir,
	}
	seen := map[string]struct{}{snapshotMetaFile: {}}
	for i, source := range sources {
		name := filepath.Base(source)
		if _, dup := seen[name]; dup {
			name = fmt.Sprintf("%d-%s", i, name)
		}
		seen[name] = struct{}{}
		absolute, err := filepath.Abs(source)
		if err != nil {
			return types.Snapshot{}, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("backup failed: cannot resolve %s", source)).
				WithCause(err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), contents[i], 0o644); err != nil {
			return types.Snapshot{}, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("backup failed: cannot copy %s", source)).
				WithCause(err)
		}
		snapshot.Files = append(snapshot.Files, types.SnapshotFile{Name: name, Target: absolute})
	}
	meta, err := yaml.Marshal(snapshot)
	if err != nil {
		return types.Snapshot{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("backup failed: cannot serialize snapshot metadata").
			WithCause(err)
	}
	if err := os.WriteFile(filepath.Join(dir, snapshotMetaFile), meta, 0o644); err != nil {
		return types.Snapshot{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("backup failed: cannot write snapshot metadata").
			WithCause(err)
	}
	log.Ctx(ctx).Debug().Str("snapshot", id).Int("files", len(snapshot.Files)).Msg("snapshot created")
	return snapshot, nil
}

// Restore rewrites every captured file at its live path with the same
// temp-file-then-rename discipline as manifest saves. A failure here is
// the one unrecoverable error in the system and must be surfaced loudly.
func (a SnapshotDirAdapter) Restore(ctx context.Context, snapshot types.Snapshot) error {
	dir := snapshot.Dir
	if dir == "" {
		dir = filepath.Join(a.Root, snapshot.ID)
	}
	for _, file := range snapshot.Files {
		data, err := os.ReadFile(filepath.Join(dir, file.Name))
		if err != nil {
			return restoreFailed(file.Target, err)
		}
		if err := atomicWriteFile(file.Target, data); err != nil {
			return restoreFailed(file.Target, err)
		}
	}
	log.Ctx(ctx).Info().Str("snapshot", snapshot.ID).Msg("snapshot restored")
	return nil
}

func restoreFailed(target string, cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(fmt.Sprintf("restore failed for %s: manual intervention required", target)).
		WithCause(cause)
}

func (a SnapshotDirAdapter) Get(id string) (types.Snapshot, error) {
	dir := filepath.Join(a.Root, id)
	data, err := os.ReadFile(filepath.Join(dir, snapshotMetaFile))
	if err != nil {
		return types.Snapshot{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("snapshot %s not found", id)).
			WithCause(err)
	}
	var snapshot types.Snapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return types.Snapshot{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("snapshot %s has invalid metadata", id)).
			WithCause(err)
	}
	snapshot.Dir = dir
	return snapshot, nil
}

func (a SnapshotDirAdapter) List() ([]types.Snapshot, error) {
	entries, err := os.ReadDir(a.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read snapshot store").
			WithCause(err)
	}
	var snapshots []types.Snapshot
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		snapshot, err := a.Get(entry.Name())
		if err != nil {
			log.Warn().Str("snapshot", entry.Name()).AnErr("cause", err).Msg("skipping unreadable snapshot")
			continue
		}
		snapshots = append(snapshots, snapshot)
	}
	sort.Slice(snapshots, func(i, j int) bool {
		if snapshots[i].CreatedAt != snapshots[j].CreatedAt {
			return snapshots[i].CreatedAt > snapshots[j].CreatedAt
		}
		return snapshots[i].ID > snapshots[j].ID
	})
	return snapshots, nil
}

func (a SnapshotDirAdapter) Prune(keep int) (int, error) {
	if keep < 0 {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("keep count must not be negative")
	}
	snapshots, err := a.List()
	if err != nil {
		return 0, err
	}
	if len(snapshots) <= keep {
		return 0, nil
	}
	removed := 0
	for _, snapshot := range snapshots[keep:] {
		if err := os.RemoveAll(snapshot.Dir); err != nil {
			return removed, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("failed to prune snapshot %s", snapshot.ID)).
				WithCause(err)
		}
		removed++
	}
	return removed, nil
}

// buildSnapshotID derives a sortable, content-addressed id from the
// snapshot time and the captured file contents.
func buildSnapshotID(now time.Time, contents [][]byte) string {
	hash := sha256.New()
	for _, data := range contents {
		hash.Write(data)
		hash.Write([]byte{0})
	}
	sum := hash.Sum(nil)
	return fmt.Sprintf("%s-%s", now.Format("20060102T150405Z"), hex.EncodeToString(sum[:4]))
}

var _ ports.BackupPort = SnapshotDirAdapter{}
