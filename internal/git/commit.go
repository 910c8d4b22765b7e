package git

import (
	"context"
	"fmt"
	"strings"

	mudpatcherrors "mudpatch.dev/mudpatch/internal/errors"
)

// Stage adds a single path to the index
func (r *Repository) Stage(ctx context.Context, path string) error {
	_, err := r.runner.Run(ctx, "add", "--", path)
	if err != nil {
		return fmt.Errorf("failed to stage %s: %w", path, err)
	}
	return nil
}

// HasStagedChanges checks if there are staged changes
func (r *Repository) HasStagedChanges(ctx context.Context) (bool, error) {
	output, err := r.runner.Run(ctx, "diff", "--cached", "--shortstat")
	if err != nil {
		return false, fmt.Errorf("failed to check staged changes: %w", err)
	}
	return strings.TrimSpace(output) != "", nil
}

// Commit commits the staged changes with message and returns git's output
func (r *Repository) Commit(ctx context.Context, message string) (string, error) {
	output, err := r.runner.Run(ctx, "commit", "-m", message)
	if err != nil {
		return "", mudpatcherrors.NewCommitError("failed to commit", err)
	}
	return output, nil
}
