package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/shoporusni/internal/codes"
	"github.com/Norgate-AV/shoporusni/internal/config"
	"github.com/Norgate-AV/shoporusni/internal/version"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "shoporusni",
		Short:         "Print the latest losses statistics",
		Long:          `Fetch the latest statistics document, caching it on disk between runs.`,
		RunE:          runStats,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", version.Version, version.Commit, version.BuildTime)
	rootCmd.PersistentFlags().StringP("url", "u", config.DefaultURL, "Remote API URL")
	rootCmd.PersistentFlags().StringP("refresh", "r", config.DefaultRefresh, "Refresh time for cache (e.g. 30minutes, 1h)")
	rootCmd.PersistentFlags().String("timeout", config.DefaultTimeout, "Timeout for the HTTP request")
	rootCmd.PersistentFlags().CountP("verbose", "v", "-v for warn, -vv for info, -vvv for debug")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable coloured output")
	rootCmd.Flags().BoolP("all", "a", false, "Print every counter, not just personnel")
	rootCmd.Flags().Bool("no-journal", false, "Do not record this run in the history")

	rootCmd.AddCommand(
		newStatusCmd(),
		newHistoryCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func Execute() {
	rootCmd := newRootCmd()
	err := rootCmd.Execute()

	if code := reportError(rootCmd.ErrOrStderr(), err); !codes.IsSuccess(code) {
		os.Exit(code)
	}
}

// reportError prints err with the description of its exit code and returns the code
func reportError(w io.Writer, err error) int {
	code := codes.ExitCode(err)
	if codes.IsSuccess(code) {
		return code
	}

	fmt.Fprintf(w, "Error: %v (%s)\n", err, codes.GetErrorMessage(code))
	return code
}

// loadConfig wraps loader failures so they map to the configuration exit code
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.NewLoader().LoadForRun(cmd)
	if err != nil {
		return nil, &codes.ConfigError{Err: err}
	}

	return cfg, nil
}
