package runtime

import (
	"context"
	"fmt"

	"mudpatch.dev/mudpatch/internal/config"
	"mudpatch.dev/mudpatch/internal/git"
	"mudpatch.dev/mudpatch/internal/output"
)

// Context provides access to the repository and output for commands
type Context struct {
	context.Context
	Repo     git.Repo
	Splog    output.Sink
	RepoRoot string
	Config   *config.RepoConfig
}

// NewContext creates a context for repo with default configuration
func NewContext(ctx context.Context, repo git.Repo, splog output.Sink) *Context {
	if splog == nil {
		splog = output.Discard
	}
	return &Context{
		Context:  ctx,
		Repo:     repo,
		Splog:    splog,
		RepoRoot: repo.Root(),
		Config:   &config.RepoConfig{},
	}
}

// Open opens the repository containing repoPath and loads its configuration
func Open(ctx context.Context, repoPath string, splog output.Sink) (*Context, error) {
	repo, err := git.OpenRepository(repoPath)
	if err != nil {
		return nil, err
	}

	rctx := NewContext(ctx, repo, splog)

	cfg, err := config.GetRepoConfig(rctx.RepoRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration for %s: %w", rctx.RepoRoot, err)
	}
	rctx.Config = cfg
	rctx.Splog.Debug("Opened repository %s", rctx.RepoRoot)

	return rctx, nil
}
