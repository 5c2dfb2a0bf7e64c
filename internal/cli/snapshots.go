package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"depsync/internal/adapters"
	"depsync/internal/app"
)

type snapshotsOptions struct {
	Manifest string
	ID       string
	Keep     int
}

func newSnapshotsCommand() *cobra.Command {
	opts := snapshotsOptions{}
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Inspect and restore manifest snapshots",
	}
	cmd.PersistentFlags().StringVar(&opts.Manifest, "manifest", "", "Manifest file path")
	_ = viper.BindPFlag("manifest", cmd.PersistentFlags().Lookup("manifest"))

	list := &cobra.Command{
		Use:   "list",
		Short: "List snapshots, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSnapshotsList(cmd.Context(), cmd, opts)
		},
	}

	restore := &cobra.Command{
		Use:   "restore",
		Short: "Restore the manifest from a snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSnapshotsRestore(cmd.Context(), cmd, opts)
		},
	}
	restore.Flags().StringVar(&opts.ID, "id", "", "Snapshot id")

	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest snapshots",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSnapshotsPrune(cmd.Context(), cmd, opts)
		},
	}
	prune.Flags().IntVar(&opts.Keep, "keep", 10, "Snapshots to keep")

	cmd.AddCommand(list)
	cmd.AddCommand(restore)
	cmd.AddCommand(prune)
	return cmd
}

// newSnapshotService wires only what the snapshot subcommands need.
func newSnapshotService(manifestPath string) app.Service {
	manifestDir := filepath.Dir(manifestPath)
	return app.Service{
		Manifest: adapters.NewManifestFileAdapter(),
		Backups:  adapters.NewSnapshotDirAdapter(filepath.Join(manifestDir, stateDirName, "snapshots")),
		Lock:     adapters.NewFlockRunLock(manifestPath + ".lock"),
	}
}

func runSnapshotsList(ctx context.Context, cmd *cobra.Command, opts snapshotsOptions) error {
	manifest := resolveString(cmd, opts.Manifest, "manifest", "manifest")
	service := newSnapshotService(manifest)
	snapshots, err := service.ListSnapshots(ctx)
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		fmt.Println("no snapshots")
		return nil
	}
	for _, snapshot := range snapshots {
		fmt.Printf("%s  %s  files=%d\n", snapshot.ID, snapshot.CreatedAt, len(snapshot.Files))
	}
	return nil
}

func runSnapshotsRestore(ctx context.Context, cmd *cobra.Command, opts snapshotsOptions) error {
	manifest := resolveString(cmd, opts.Manifest, "manifest", "manifest")
	service := newSnapshotService(manifest)
	result, err := service.RestoreSnapshot(ctx, app.RestoreRequest{SnapshotID: opts.ID})
	if err != nil {
		return err
	}
	fmt.Printf("restored %s (%d files)\n", result.SnapshotID, result.Files)
	return nil
}

func runSnapshotsPrune(ctx context.Context, cmd *cobra.Command, opts snapshotsOptions) error {
	manifest := resolveString(cmd, opts.Manifest, "manifest", "manifest")
	service := newSnapshotService(manifest)
	result, err := service.PruneSnapshots(ctx, app.PruneRequest{Keep: opts.Keep})
	if err != nil {
		return err
	}
	fmt.Printf("pruned %d snapshot(s)\n", result.Removed)
	return nil
}
