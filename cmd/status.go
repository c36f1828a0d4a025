package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Norgate-AV/shoporusni/internal/cache"
	"github.com/Norgate-AV/shoporusni/internal/journal"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "status",
		Short:        "Show the state of the cache file",
		Long:         `Report where the cache file lives, how old it is and whether the next run would refresh it.`,
		RunE:         runStatus,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	info, err := cache.New(cfg.Dir, cfg.Refresh).Inspect()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Path:\t%s\n", info.Path)

	if info.Exists {
		fmt.Fprintf(w, "State:\t%s\n", info.Kind)
		fmt.Fprintf(w, "Size:\t%s\n", humanize.Bytes(uint64(info.Size)))
		fmt.Fprintf(w, "Modified:\t%s\n", humanize.Time(info.ModTime))
	} else {
		fmt.Fprintf(w, "State:\t%s (no cache file yet)\n", info.Kind)
	}

	fmt.Fprintf(w, "Refresh:\t%s\n", info.TTL)

	if j, err := journal.Open(cfg.Dir); err == nil {
		if count, err := j.Count(); err == nil {
			fmt.Fprintf(w, "Runs:\t%s\n", humanize.Comma(int64(count)))
		}
		j.Close()
	}

	return w.Flush()
}
