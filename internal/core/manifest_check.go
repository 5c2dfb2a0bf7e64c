package core

import (
	"context"
	"fmt"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"

	"depsync/internal/types"
)

// ValidateManifest rejects manifests that loaded structurally but carry
// unusable entries. Name presence is a loader invariant; versions are
// operator input and get a proper error.
func ValidateManifest(ctx context.Context, manifest types.Manifest) error {
	for _, entry := range manifest.Entries {
		assert.NotEmpty(ctx, entry.Name, "manifest entry must have a name")
		if strings.TrimSpace(entry.Version) == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("package %s has an empty pinned version", entry.Name))
		}
	}
	return nil
}
