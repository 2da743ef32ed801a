// Package expiry computes how long an issued dynamic payment code stays
// payable.
package expiry

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxTTL bounds the validity window of a single payment code.
const MaxTTL = 24 * time.Hour

var (
	defaultLoc = time.UTC
	defaultTTL = 15 * time.Minute
)

// SetDefaultLocation sets the location expiry instants are reported in (fallback UTC).
func SetDefaultLocation(loc *time.Location) {
	if loc != nil {
		defaultLoc = loc
	}
}

// SetDefaultTTL replaces the validity window used when no override is given.
func SetDefaultTTL(ttl time.Duration) {
	if ttl > 0 && ttl <= MaxTTL {
		defaultTTL = ttl
	}
}

// TTL returns override when positive, otherwise the default window.
func TTL(override time.Duration) time.Duration {
	if override > 0 {
		return override
	}
	return defaultTTL
}

// ExpiresAt returns the last instant a code issued at issue is payable,
// truncated to the second.
func ExpiresAt(issue time.Time, ttl time.Duration) time.Time {
	return issue.In(defaultLoc).Add(TTL(ttl)).Truncate(time.Second)
}

// IsExpired reports whether at is strictly after expiresAt.
func IsExpired(expiresAt, at time.Time) bool {
	return at.After(expiresAt)
}

// Remaining returns the time left until expiresAt, never negative.
func Remaining(expiresAt, at time.Time) time.Duration {
	if d := expiresAt.Sub(at); d > 0 {
		return d
	}
	return 0
}

// ParseTTL accepts a Go duration ("15m", "90s") or a bare number of minutes ("15").
func ParseTTL(in string) (time.Duration, error) {
	s := strings.TrimSpace(in)
	if s == "" {
		return 0, fmt.Errorf("ttl is required")
	}
	var d time.Duration
	if n, err := strconv.Atoi(s); err == nil {
		d = time.Duration(n) * time.Minute
	} else if d, err = time.ParseDuration(s); err != nil {
		return 0, fmt.Errorf("ttl must be a duration or minutes: %q", in)
	}
	if d <= 0 {
		return 0, fmt.Errorf("ttl must be positive")
	}
	if d > MaxTTL {
		return 0, fmt.Errorf("ttl must not exceed %s", MaxTTL)
	}
	return d, nil
}
