package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mudpatcherrors "mudpatch.dev/mudpatch/internal/errors"
	"mudpatch.dev/mudpatch/internal/output"
)

const (
	// ExitFailure is returned for every error raised before merging starts
	ExitFailure = 1
	// ExitMergeFailed is returned when a patch branch failed to merge
	ExitMergeFailed = 2
)

// app holds state shared by all commands of one invocation
type app struct {
	debug   bool
	logFile string
	splog   *output.Splog
}

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	return newRootCmd(&app{}, version, commit, date)
}

func newRootCmd(a *app, version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mudpatch",
		Short: "mudpatch merges patch branches into a new release branch",
		Long: `mudpatch assembles a release branch by merging a list of patch branches,
described in a YAML patch configuration file, into a new branch created from
a base branch or tag.

Exit codes: 0 on success, 1 when the run failed before merging, 2 when a
patch branch failed to merge.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	// Finalizers also run when a command fails, unlike post-run hooks
	cobra.OnFinalize(func() {
		if err := a.close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
		}
	})

	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Print debug output, including git's output")
	rootCmd.PersistentFlags().StringVar(&a.logFile, "log-file", "", "Also write all output to a rotating log file (default "+output.DefaultLogFilePath()+" when given without a value)")
	rootCmd.PersistentFlags().Lookup("log-file").NoOptDefVal = output.DefaultLogFilePath()

	rootCmd.AddCommand(newMergeCmd(a))
	rootCmd.AddCommand(newPatchesCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	output.ConfigureColor(os.Stdout)

	logFile := a.logFile
	if logFile == "" {
		logFile = output.GetLogFilePath()
	}

	splog, err := output.NewSplogWithConfig(output.Options{
		Writer:  cmd.OutOrStdout(),
		Debug:   a.debug || os.Getenv("DEBUG") != "",
		LogFile: logFile,
	})
	if err != nil {
		return err
	}
	a.splog = splog
	return nil
}

func (a *app) close() error {
	if a.splog == nil {
		return nil
	}
	err := a.splog.Close()
	a.splog = nil
	return err
}

// sink returns the diagnostic sink for commands that run without setup, as in tests
func (a *app) sink() *output.Splog {
	if a.splog == nil {
		a.splog = output.NewSplog()
	}
	return a.splog
}

// ExitCode maps an error returned by a command to the process exit code
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, mudpatcherrors.ErrMergeFailed) {
		return ExitMergeFailed
	}
	return ExitFailure
}
