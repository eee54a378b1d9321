// Package duration parses human-readable spans such as "1w", "30d" or "6mo".
package duration

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const day = 24 * time.Hour

var spanRegex = regexp.MustCompile(`^(\d+)\s*([a-z]+)$`)

var units = map[string]time.Duration{
	"s": time.Second, "sec": time.Second, "secs": time.Second,
	"m": time.Minute, "min": time.Minute, "mins": time.Minute,
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"d": day, "day": day, "days": day,
	"w": 7 * day, "wk": 7 * day, "wks": 7 * day, "week": 7 * day, "weeks": 7 * day,
	"mo": 30 * day, "month": 30 * day, "months": 30 * day,
	"y": 365 * day, "yr": 365 * day, "yrs": 365 * day, "year": 365 * day, "years": 365 * day,
}

// ParseSpan parses a single "<n><unit>" span. Anything time.ParseDuration
// accepts ("90s", "1h30m") is accepted too.
func ParseSpan(s string) (time.Duration, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if m := spanRegex.FindStringSubmatch(s); m != nil {
		unit, ok := units[m[2]]
		if !ok {
			return 0, fmt.Errorf("unknown duration unit: %s", m[2])
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(n) * unit, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	return 0, fmt.Errorf("invalid duration format: %q (use e.g., 6h, 30d, 1w, 6mo)", s)
}

// Since returns now minus the span s.
func Since(s string, now time.Time) (time.Time, error) {
	d, err := ParseSpan(s)
	if err != nil {
		return time.Time{}, err
	}
	return now.Add(-d), nil
}
