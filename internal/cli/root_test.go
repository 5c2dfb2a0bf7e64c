package cli

import (
	"errors"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCodeForError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "verification rollback",
			err: errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg("verification failed, rolled back"),
			want: 1,
		},
		{
			name: "save failure rollback",
			err: errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg("failed to persist candidate manifest (read-only filesystem), rolled back"),
			want: 1,
		},
		{
			name: "restore failure",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("restore failed for /work/deps.yaml: manual intervention required"),
			want: 3,
		},
		{
			name: "manifest missing",
			err: errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("manifest file not found"),
			want: 2,
		},
		{
			name: "lock held",
			err: errbuilder.New().
				WithCode(errbuilder.CodeAlreadyExists).
				WithMsg("another run holds the manifest lock"),
			want: 2,
		},
		{
			name: "backup failure",
			err: errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg("backup failed: disk full"),
			want: 2,
		},
		{
			name: "plain error",
			err:  errors.New("something unexpected"),
			want: 2,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, exitCodeForError(tc.err))
		})
	}
}

func TestRootCommandTree(t *testing.T) {
	root := NewRootCommand()
	names := map[string]bool{}
	for _, sub := range root.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"update", "check", "snapshots"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestUpdateCommandFlags(t *testing.T) {
	cmd := newUpdateCommand()
	for _, flag := range []string{
		"manifest", "index", "registry", "cache-ttl",
		"verify-cmd", "verify-timeout", "allow-breaking", "allow-unknown",
		"aux", "output", "workers", "dry-run",
	} {
		require.NotNil(t, cmd.Flags().Lookup(flag), "missing flag %s", flag)
	}
}

func TestSnapshotsCommandTree(t *testing.T) {
	cmd := newSnapshotsCommand()
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"list", "restore", "prune"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}
