package cache

import "time"

// Kind classifies the cache file
type Kind int

const (
	// Unclassified is the zero value; it must never reach the arbiter
	Unclassified Kind = iota

	// Fresh content is younger than (or exactly as old as) the TTL
	Fresh

	// Stale content is older than the TTL
	Stale

	// Absent means the file did not exist and was just created empty
	Absent
)

func (k Kind) String() string {
	switch k {
	case Unclassified:
		return "unclassified"
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	case Absent:
		return "absent"
	default:
		return "unknown"
	}
}

// State is the result of classifying the cache file.
// Content is only meaningful for Fresh and Stale.
type State struct {
	Kind    Kind
	Content string
}

// Info describes the cache file for reporting
type Info struct {
	Path    string
	Exists  bool
	Size    int64
	ModTime time.Time
	Age     time.Duration
	TTL     time.Duration
	Kind    Kind
}
