package journal

import "time"

// Entry represents one run of the tool
type Entry struct {
	// ID is a UUIDv7, also used as the BoltDB key
	ID string `json:"id"`

	// Time the run finished
	Time time.Time `json:"time"`

	// URL the payload was requested from
	URL string `json:"url"`

	// State is the cache classification (fresh, stale, absent)
	State string `json:"state"`

	// Source of the served payload (cache, network, fallback); empty on failure
	Source string `json:"source,omitempty"`

	// Persisted reports whether the cache file was rewritten
	Persisted bool `json:"persisted"`

	// Digest is the SHA256 of the served payload
	Digest string `json:"digest,omitempty"`

	// Error holds the failure or the swallowed fetch error
	Error string `json:"error,omitempty"`
}
