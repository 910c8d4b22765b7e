package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mudpatch.dev/mudpatch/internal/cli/helpers"
	"mudpatch.dev/mudpatch/internal/config"
	"mudpatch.dev/mudpatch/internal/runtime"
)

const configKeys = "fallback-branches, manifest-file, remote, cleanup"

// newConfigCmd creates the config command
func newConfigCmd(a *app) *cobra.Command {
	var repoPath string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show, get and set repository configuration",
		Long: `Show the effective configuration of a repository, or get and set single
values. Configuration is stored in .git/.mudpatch_config and provides the
defaults for merge init flags.

Keys: ` + configKeys + `

Examples:
  mudpatch config
  mudpatch config get fallback-branches
  mudpatch config set fallback-branches develop,main
  mudpatch config set cleanup true`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, repoPath, a.sink(), func(ctx *runtime.Context) error {
				out := cmd.OutOrStdout()
				for _, key := range strings.Split(configKeys, ", ") {
					value, _ := getConfigValue(ctx.Config, key)
					fmt.Fprintf(out, "%s = %s\n", key, value)
				}
				return nil
			})
		},
	}

	cmd.PersistentFlags().StringVar(&repoPath, "repo", ".", "Repository to configure")

	cmd.AddCommand(newConfigGetCmd(a, &repoPath))
	cmd.AddCommand(newConfigSetCmd(a, &repoPath))

	return cmd
}

// newConfigGetCmd creates the config get command
func newConfigGetCmd(a *app, repoPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, *repoPath, a.sink(), func(ctx *runtime.Context) error {
				value, err := getConfigValue(ctx.Config, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			})
		},
	}
}

// newConfigSetCmd creates the config set command
func newConfigSetCmd(a *app, repoPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, *repoPath, a.sink(), func(ctx *runtime.Context) error {
				key, value := args[0], args[1]
				cfg := ctx.Config

				switch key {
				case "fallback-branches":
					var names []string
					for _, name := range strings.Split(value, ",") {
						if name = strings.TrimSpace(name); name != "" {
							names = append(names, name)
						}
					}
					cfg.FallbackBranches = names
				case "manifest-file":
					cfg.ManifestFile = &value
				case "remote":
					cfg.Remote = &value
				case "cleanup":
					enabled, err := strconv.ParseBool(value)
					if err != nil {
						return fmt.Errorf("invalid value for cleanup: %s (must be 'true' or 'false')", value)
					}
					cfg.Cleanup = &enabled
				default:
					return fmt.Errorf("unknown configuration key: %s (known keys: %s)", key, configKeys)
				}

				if err := config.SaveRepoConfig(ctx.RepoRoot, cfg); err != nil {
					return fmt.Errorf("failed to save configuration: %w", err)
				}
				ctx.Splog.Info("Set %s to: %s", key, value)
				return nil
			})
		},
	}
}

func getConfigValue(cfg *config.RepoConfig, key string) (string, error) {
	switch key {
	case "fallback-branches":
		return strings.Join(cfg.GetFallbackBranches(), ","), nil
	case "manifest-file":
		return cfg.GetManifestFile(), nil
	case "remote":
		return cfg.GetRemote(), nil
	case "cleanup":
		return strconv.FormatBool(cfg.GetCleanup()), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s (known keys: %s)", key, configKeys)
	}
}
