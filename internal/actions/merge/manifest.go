package merge

import (
	"context"
	"path/filepath"

	"mudpatch.dev/mudpatch/internal/git"
	"mudpatch.dev/mudpatch/internal/output"
	"mudpatch.dev/mudpatch/internal/patches"
)

// ManifestCommitMessage is the message of the commit that adds the manifest
const ManifestCommitMessage = "Added patches configuration file"

// WriteManifest checks out branch, writes the patch list to fileName at the
// repository root and commits it. When the file already holds exactly this
// content nothing is committed.
func WriteManifest(ctx context.Context, repo git.Repo, sink output.Sink, branch, fileName string, list []patches.Patch) error {
	if err := repo.Checkout(ctx, branch); err != nil {
		return err
	}

	sink.Info("Committing patch configuration file to output branch: %s", output.ColorBranchName(branch))

	if err := patches.Save(filepath.Join(repo.Root(), fileName), list); err != nil {
		return err
	}
	if err := repo.Stage(ctx, fileName); err != nil {
		return err
	}

	staged, err := repo.HasStagedChanges(ctx)
	if err != nil {
		return err
	}
	if !staged {
		sink.Info("Patch configuration file %s is unchanged, nothing to commit", fileName)
		return nil
	}

	text, err := repo.Commit(ctx, ManifestCommitMessage)
	if err != nil {
		sink.Error("Encountered error committing the patches configuration file")
		return err
	}
	sink.Debug("%s", text)
	sink.Info("Successfully committed patches configuration file to branch: %s", output.ColorBranchName(branch))
	return nil
}
