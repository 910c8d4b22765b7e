package testhelpers

import (
	"os"
	"path/filepath"
	"testing"
)

// Scene represents a test scene with a temporary directory and Git repository.
type Scene struct {
	Dir  string
	Repo *GitRepo
}

// SceneSetup is a function type for setting up a scene.
type SceneSetup func(*Scene) error

// NewScene creates a new test scene with a temporary directory and Git repository.
// The directory is removed by t.Cleanup() unless DEBUG is set.
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "mudpatch-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	// macOS temp dirs are symlinks; compare against the resolved path
	if resolved, err := filepath.EvalSymlinks(tmpDir); err == nil {
		tmpDir = resolved
	}
	repoDir := filepath.Join(tmpDir, "repo")

	t.Cleanup(func() {
		if os.Getenv("DEBUG") == "" {
			os.RemoveAll(tmpDir)
		}
	})

	repo, err := NewGitRepo(repoDir)
	if err != nil {
		t.Fatalf("Failed to create Git repo: %v", err)
	}

	scene := &Scene{
		Dir:  repoDir,
		Repo: repo,
	}

	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}

	return scene
}

// BasicSceneSetup is a setup function that creates a basic scene with a single commit.
func BasicSceneSetup(scene *Scene) error {
	return scene.Repo.CreateChangeAndCommit("1", "1")
}

// PatchSceneSetup creates main with a base commit and three patch branches.
// patch-1 and patch-2 both rewrite shared.txt, so merging patch-2 after
// patch-1 conflicts; patch-3 adds an unrelated file.
func PatchSceneSetup(scene *Scene) error {
	repo := scene.Repo
	if err := repo.CommitFile("shared.txt", "base\n", "base"); err != nil {
		return err
	}
	if err := repo.CreatePatchBranch("patch-1", "main", "shared.txt", "one\n"); err != nil {
		return err
	}
	if err := repo.CreatePatchBranch("patch-2", "main", "shared.txt", "two\n"); err != nil {
		return err
	}
	return repo.CreatePatchBranch("patch-3", "main", "three.txt", "three\n")
}

// CleanPatchSceneSetup creates main with three patch branches touching
// distinct files, so every merge succeeds.
func CleanPatchSceneSetup(scene *Scene) error {
	repo := scene.Repo
	if err := repo.CommitFile("base.txt", "base\n", "base"); err != nil {
		return err
	}
	for _, name := range []string{"patch-1", "patch-2", "patch-3"} {
		if err := repo.CreatePatchBranch(name, "main", name+".txt", name+"\n"); err != nil {
			return err
		}
	}
	return nil
}
