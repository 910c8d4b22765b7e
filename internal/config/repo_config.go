package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"mudpatch.dev/mudpatch/internal/patches"
	"mudpatch.dev/mudpatch/internal/refs"
)

// configFileName is stored inside the repository's .git directory
const configFileName = ".mudpatch_config"

// RepoConfig represents the repository configuration
type RepoConfig struct {
	FallbackBranches []string `json:"fallbackBranches,omitempty"`
	ManifestFile     *string  `json:"manifestFile,omitempty"`
	Remote           *string  `json:"remote,omitempty"`
	Cleanup          *bool    `json:"cleanup,omitempty"`
}

// ConfigPath returns the location of the repository configuration file
func ConfigPath(repoRoot string) string {
	return filepath.Join(repoRoot, ".git", configFileName)
}

// GetRepoConfig reads the repository configuration
func GetRepoConfig(repoRoot string) (*RepoConfig, error) {
	data, err := os.ReadFile(ConfigPath(repoRoot))
	if err != nil {
		if os.IsNotExist(err) {
			// Config doesn't exist - return default
			return &RepoConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read repo config: %w", err)
	}

	var config RepoConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse repo config: %w", err)
	}

	return &config, nil
}

// SaveRepoConfig writes the repository configuration
func SaveRepoConfig(repoRoot string, config *RepoConfig) error {
	configJSON, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(ConfigPath(repoRoot), configJSON, 0600)
}

// GetFallbackBranches returns the branch names tried, in order, when
// cleaning up a failed merge. Defaults to main, master, trunk.
func (c *RepoConfig) GetFallbackBranches() []string {
	if len(c.FallbackBranches) > 0 {
		return c.FallbackBranches
	}
	return refs.DefaultFallbackBranches
}

// GetManifestFile returns the manifest file name committed to output branches
func (c *RepoConfig) GetManifestFile() string {
	if c.ManifestFile != nil && *c.ManifestFile != "" {
		return *c.ManifestFile
	}
	return patches.DefaultManifestFileName
}

// GetRemote returns the remote patch branches are resolved against, or "" for all remotes
func (c *RepoConfig) GetRemote() string {
	if c.Remote != nil {
		return *c.Remote
	}
	return ""
}

// GetCleanup returns whether failed merges are rolled back by default
func (c *RepoConfig) GetCleanup() bool {
	if c.Cleanup != nil {
		return *c.Cleanup
	}
	return false
}
