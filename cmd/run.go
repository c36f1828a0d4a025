package cmd

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Norgate-AV/shoporusni/internal/arbiter"
	"github.com/Norgate-AV/shoporusni/internal/cache"
	"github.com/Norgate-AV/shoporusni/internal/config"
	"github.com/Norgate-AV/shoporusni/internal/fetch"
	"github.com/Norgate-AV/shoporusni/internal/journal"
	"github.com/Norgate-AV/shoporusni/internal/logging"
	"github.com/Norgate-AV/shoporusni/internal/render"
	"github.com/Norgate-AV/shoporusni/internal/stats"
)

var newFetcher = func(timeout time.Duration) fetch.Fetcher {
	return fetch.NewHTTPFetcher(timeout)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := logging.New(cmd.ErrOrStderr(), cfg.Verbosity)
	log.WithField("dir", cfg.Dir).Debug("Config directory")

	store := cache.New(cfg.Dir, cfg.Refresh)
	arb := arbiter.New(store, newFetcher(cfg.Timeout), arbiter.WithLogger(log))

	log.Info("Getting data from API or cache")
	res, err := arb.Resolve(cmd.Context(), cfg.URL)

	var doc *stats.Statistics
	if err == nil {
		doc, err = stats.Parse(res.Text)
	}

	if !cfg.NoJournal {
		recordRun(log, cfg, res, err)
	}

	if err != nil {
		return err
	}

	log.Info("Printing result")
	r := render.New(cfg.NoColor)
	if cfg.All {
		return r.Table(cmd.OutOrStdout(), doc)
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), r.Render(doc))
	return err
}

// recordRun writes the outcome to the journal. Journal failures are only logged.
func recordRun(log logrus.FieldLogger, cfg *config.Config, res *arbiter.Resolution, runErr error) {
	j, err := journal.Open(cfg.Dir)
	if err != nil {
		log.WithError(err).Warn("Journal unavailable, run not recorded")
		return
	}
	defer j.Close()

	entry := journal.Entry{URL: cfg.URL}

	if res != nil {
		entry.State = res.State.String()
		entry.Source = string(res.Source)
		entry.Persisted = res.Persisted
		entry.Digest = cache.Digest(res.Text)

		if res.FetchErr != nil {
			entry.Error = res.FetchErr.Error()
		}
	}

	if runErr != nil {
		entry.Error = runErr.Error()
	}

	if _, err := j.Record(entry); err != nil {
		log.WithError(err).Warn("Failed to record run")
	}
}
