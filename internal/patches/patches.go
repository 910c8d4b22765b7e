// Package patches reads and writes patch configuration files.
//
// A patch configuration file is a YAML sequence of records, one per patch
// branch, in the order the branches are merged:
//
//	- title: ABC-123
//	  description: Fix the frobnicator
//	  upstreamPR: https://example.com/pulls/42
//	  downstreamBranch: abc-123-frobnicator
//	  fixedVersion: "3.2"
//
// Record order and key order survive a load/save round trip.
package patches

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	mudpatcherrors "mudpatch.dev/mudpatch/internal/errors"
)

// DefaultManifestFileName is the name of the manifest committed to output branches
const DefaultManifestFileName = "patches-config.yaml"

// Patch describes a single patch branch. Field order is the serialized key order.
type Patch struct {
	// Title is a short unique identifier, for example an issue reference
	Title string `yaml:"title"`
	// Description says what the patch adds or fixes
	Description string `yaml:"description"`
	// UpstreamPR points at the upstream change request the patch derives from
	UpstreamPR string `yaml:"upstreamPR"`
	// DownstreamBranch is the branch that carries the patch
	DownstreamBranch string `yaml:"downstreamBranch"`
	// FixedVersion is the upstream version that contains the fix
	FixedVersion string `yaml:"fixedVersion"`
}

// Load reads and validates the patch configuration file at path
func Load(path string) ([]Patch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read patch configuration: %w", err)
	}
	return Parse(data, path)
}

// Parse decodes and validates patch records. source names the data in errors.
func Parse(data []byte, source string) ([]Patch, error) {
	var list []Patch
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, mudpatcherrors.NewInvalidPatchConfigError(source, -1, err.Error())
	}
	if list == nil {
		list = []Patch{}
	}
	if err := Validate(list, source); err != nil {
		return nil, err
	}
	return list, nil
}

// Validate checks that every record has a title and a downstream branch and
// that titles are unique.
func Validate(list []Patch, source string) error {
	seen := make(map[string]int, len(list))
	for i, p := range list {
		if strings.TrimSpace(p.Title) == "" {
			return mudpatcherrors.NewInvalidPatchConfigError(source, i, "title is required")
		}
		if strings.TrimSpace(p.DownstreamBranch) == "" {
			return mudpatcherrors.NewInvalidPatchConfigError(source, i, fmt.Sprintf("patch %s has no downstreamBranch", p.Title))
		}
		if first, ok := seen[p.Title]; ok {
			return mudpatcherrors.NewInvalidPatchConfigError(source, i, fmt.Sprintf("title %s is already used by patch %d", p.Title, first+1))
		}
		seen[p.Title] = i
	}
	return nil
}

// Marshal encodes patch records as YAML without reordering records or keys
func Marshal(list []Patch) ([]byte, error) {
	if list == nil {
		list = []Patch{}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(list); err != nil {
		return nil, fmt.Errorf("failed to encode patches: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode patches: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes patch records to path, replacing any existing file
func Save(path string, list []Patch) error {
	data, err := Marshal(list)
	if err != nil {
		return err
	}
	// nolint:gosec // the file is committed to the repository and must be readable
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write patch configuration: %w", err)
	}
	return nil
}

// Append adds p to the end of the configuration file at path, creating the
// file when it does not exist. Existing records keep their order.
func Append(path string, p Patch) ([]Patch, error) {
	list := []Patch{}
	if _, err := os.Stat(path); err == nil {
		list, err = Load(path)
		if err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read patch configuration: %w", err)
	}

	list = append(list, p)
	if err := Validate(list, path); err != nil {
		return nil, err
	}
	if err := Save(path, list); err != nil {
		return nil, err
	}
	return list, nil
}
