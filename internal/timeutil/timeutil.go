package timeutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const day = 24 * time.Hour

// ParseDuration extends time.ParseDuration with day ("d") and week ("w") units.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty duration string")
	}

	if dur, err := time.ParseDuration(s); err == nil {
		return dur, nil
	}

	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration format: %s", s)
	}

	numStr, unit := s[:len(s)-1], s[len(s)-1:]
	num, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration number: %s", numStr)
	}

	switch unit {
	case "d":
		return time.Duration(num) * day, nil
	case "w":
		return time.Duration(num) * 7 * day, nil
	default:
		return 0, fmt.Errorf("unknown duration unit: %s", unit)
	}
}

// ParseRelativeTime accepts "now", an RFC3339 timestamp, a YYYY-MM-DD date (UTC)
// or a signed offset from now such as "-7d" or "+90m".
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty time string")
	}
	if strings.EqualFold(s, "now") {
		return now, nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}

	sign := s[0]
	if sign != '-' && sign != '+' {
		return time.Time{}, fmt.Errorf("relative time must start with + or -: %s", s)
	}

	dur, err := ParseDuration(s[1:])
	if err != nil {
		return time.Time{}, err
	}
	if sign == '-' {
		dur = -dur
	}
	return now.Add(dur), nil
}
