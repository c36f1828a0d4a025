package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 2_630_016 * time.Second  // 30.44 days
	year  = 31_557_600 * time.Second // 365.25 days
)

var units = map[string]time.Duration{
	"nsec": time.Nanosecond, "ns": time.Nanosecond,
	"usec": time.Microsecond, "us": time.Microsecond, "µs": time.Microsecond,
	"msec": time.Millisecond, "ms": time.Millisecond,
	"seconds": time.Second, "second": time.Second, "sec": time.Second, "s": time.Second,
	"minutes": time.Minute, "minute": time.Minute, "min": time.Minute, "m": time.Minute,
	"hours": time.Hour, "hour": time.Hour, "hr": time.Hour, "h": time.Hour,
	"days": day, "day": day, "d": day,
	"weeks": week, "week": week, "w": week,
	"months": month, "month": month, "M": month,
	"years": year, "year": year, "y": year,
}

// ParseDuration accepts Go durations ("1h30m") and the spelled out form
// used on the command line ("30minutes", "1h 30m", "2days", "0 ns").
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}

	var total time.Duration
	rest := s

	for rest != "" {
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
		if rest == "" {
			break
		}

		n := strings.IndexFunc(rest, func(r rune) bool { return !unicode.IsDigit(r) })
		if n == 0 {
			return 0, fmt.Errorf("invalid duration %q: expected number at %q", s, rest)
		}

		if n < 0 {
			return 0, fmt.Errorf("invalid duration %q: missing unit after %q", s, rest)
		}

		value, err := strconv.ParseInt(rest[:n], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", s, err)
		}

		rest = strings.TrimLeftFunc(rest[n:], unicode.IsSpace)

		u := strings.IndexFunc(rest, func(r rune) bool { return unicode.IsDigit(r) || unicode.IsSpace(r) })
		if u < 0 {
			u = len(rest)
		}

		unit, ok := units[rest[:u]]
		if !ok {
			return 0, fmt.Errorf("invalid duration %q: unknown unit %q", s, rest[:u])
		}

		if value > math.MaxInt64/int64(unit) {
			return 0, fmt.Errorf("invalid duration %q: overflow at %q", s, rest[:u])
		}

		step := time.Duration(value) * unit
		if total > math.MaxInt64-step {
			return 0, fmt.Errorf("invalid duration %q: overflow", s)
		}

		total += step
		rest = rest[u:]
	}

	return total, nil
}
