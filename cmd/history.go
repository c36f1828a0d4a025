package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Norgate-AV/shoporusni/internal/journal"
)

const digestPrefix = 12

func newHistoryCmd() *cobra.Command {
	var (
		limit    int
		clearAll bool
	)

	cmd := &cobra.Command{
		Use:          "history",
		Short:        "Show recent runs",
		Long:         `List recent runs with the cache state they saw and where the data came from.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			j, err := journal.Open(cfg.Dir)
			if err != nil {
				return err
			}
			defer j.Close()

			if clearAll {
				if err := j.Clear(); err != nil {
					return fmt.Errorf("failed to clear history: %w", err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
				return nil
			}

			entries, err := j.List(limit)
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tSTATE\tSOURCE\tPERSISTED\tDIGEST\tERROR")
			for _, e := range entries {
				digest := e.Digest
				if len(digest) > digestPrefix {
					digest = digest[:digestPrefix]
				}

				fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\t%s\n",
					humanize.Time(e.Time), dash(e.State), dash(e.Source), e.Persisted, dash(digest), e.Error)
			}

			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "delete the recorded history")

	return cmd
}

func dash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
