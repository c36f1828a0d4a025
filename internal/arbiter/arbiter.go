// Package arbiter decides where the statistics payload comes from on a run:
// the cache file, the network, or the stale cache as a fallback.
package arbiter

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/Norgate-AV/shoporusni/internal/cache"
	"github.com/Norgate-AV/shoporusni/internal/fetch"
)

// ErrInvariantViolation is returned when the arbiter is handed a state that
// classification can never produce
var ErrInvariantViolation = errors.New("cache state was never classified")

// ResolutionError is returned when the fetch failed and there was nothing
// safe to serve instead
type ResolutionError struct {
	URL string
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("failed to get data from %s and no cached copy is available: %v", e.URL, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Source says where the returned text came from
type Source string

const (
	SourceCache    Source = "cache"
	SourceNetwork  Source = "network"
	SourceFallback Source = "fallback"
)

// Store is the part of cache.Store the arbiter needs
type Store interface {
	Classify() (cache.State, error)
	Persist(content string) error
}

// Resolution is the outcome of a single run
type Resolution struct {
	// Text is the raw payload handed back to the caller
	Text string

	Source Source

	// State is the classification the decision was based on
	State cache.Kind

	// Persisted reports whether Text was written to the cache file
	Persisted bool

	// FetchErr holds the swallowed network error on the fallback path
	FetchErr error
}

// Arbiter owns one store and one fetcher for the duration of a run
type Arbiter struct {
	store   Store
	fetcher fetch.Fetcher
	log     logrus.FieldLogger
}

// Option configures an Arbiter
type Option func(*Arbiter)

// WithLogger sets the logger used for decision tracing
func WithLogger(log logrus.FieldLogger) Option {
	return func(a *Arbiter) {
		a.log = log
	}
}

// New creates an arbiter
func New(store Store, fetcher fetch.Fetcher, opts ...Option) *Arbiter {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	a := &Arbiter{
		store:   store,
		fetcher: fetcher,
		log:     discard,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Resolve classifies the cache and then decides what to serve
func (a *Arbiter) Resolve(ctx context.Context, url string) (*Resolution, error) {
	a.log.Info("Reading cache")

	state, err := a.store.Classify()
	if err != nil {
		return nil, err
	}

	a.log.WithField("state", state.Kind).Debug("Cache classified")

	return a.Decide(ctx, state, url)
}

// Decide runs the decision table for an already classified state.
//
//	Fresh:  serve content, no network, no write
//	Stale:  fetch; on success serve and persist the fetched text,
//	        on failure serve the old content and write nothing
//	Absent: fetch; on success serve and persist, on failure return ResolutionError
func (a *Arbiter) Decide(ctx context.Context, state cache.State, url string) (*Resolution, error) {
	switch state.Kind {
	case cache.Fresh:
		a.log.Info("Cache is fresh, no need to call the API")

		return &Resolution{
			Text:   state.Content,
			Source: SourceCache,
			State:  state.Kind,
		}, nil

	case cache.Stale:
		a.log.Info("Cache is outdated, refreshing from the API")

		res := a.fetchOrFallback(ctx, url, state.Content)
		res.State = state.Kind

		if res.Source == SourceNetwork {
			if err := a.store.Persist(res.Text); err != nil {
				return nil, err
			}

			res.Persisted = true
			a.log.Info("Cache written")
		}

		return res, nil

	case cache.Absent:
		a.log.Info("Cache is empty, getting data from the API")

		text, err := a.fetcher.Fetch(ctx, url)
		if err != nil {
			return nil, &ResolutionError{URL: url, Err: err}
		}

		a.log.WithField("bytes", len(text)).Debug("Got data from the API")

		if err := a.store.Persist(text); err != nil {
			return nil, err
		}

		a.log.Info("Cache written")

		return &Resolution{
			Text:      text,
			Source:    SourceNetwork,
			State:     state.Kind,
			Persisted: true,
		}, nil

	case cache.Unclassified:
		return nil, ErrInvariantViolation

	default:
		return nil, fmt.Errorf("%w: unknown state %d", ErrInvariantViolation, int(state.Kind))
	}
}

// fetchOrFallback tries the network once and substitutes the old content on
// any fetch failure. The error is logged and kept on the result, never returned.
func (a *Arbiter) fetchOrFallback(ctx context.Context, url, old string) *Resolution {
	text, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		a.log.WithError(err).Warn("Failed to refresh from the API, serving the cached copy")

		return &Resolution{
			Text:     old,
			Source:   SourceFallback,
			FetchErr: err,
		}
	}

	a.log.WithField("bytes", len(text)).Debug("Got data from the API")

	return &Resolution{
		Text:   text,
		Source: SourceNetwork,
	}
}
