// Package timespec parses the time expressions accepted by --at and --in.
package timespec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"podctl/internal/domain"
)

var (
	clockRe    = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	tomorrowRe = regexp.MustCompile(`(?i)^tomorrow\s+(\d{1,2}):(\d{2})$`)
	durationRe = regexp.MustCompile(`^(?:(\d+)d)?(?:(\d+)h)?(?:(\d+)m)?$`)
)

var absoluteLayouts = []string{"2006-01-02 15:04", "2006-01-02T15:04"}

// ParseAt resolves an absolute time expression against now and returns the
// target instant in UTC. Supported forms:
//
//   - "HH:MM"            next occurrence of that clock time strictly after now
//   - "tomorrow HH:MM"   that clock time on the following day
//   - "2006-01-02 15:04" (or with a T separator) in the local zone
//
// A fully-qualified date-time that is not strictly in the future is rejected
// rather than silently rolled forward.
func ParseAt(text string, now time.Time) (time.Time, error) {
	spec := strings.TrimSpace(text)
	if spec == "" {
		return time.Time{}, fmt.Errorf("%w: empty time expression", domain.ErrInvalidTimeSpec)
	}

	if m := tomorrowRe.FindStringSubmatch(spec); m != nil {
		hour, minute, err := clockValues(m[1], m[2])
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q: %v", domain.ErrInvalidTimeSpec, text, err)
		}
		base := now.AddDate(0, 0, 1)
		target := time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, now.Location())
		return target.UTC(), nil
	}

	if m := clockRe.FindStringSubmatch(spec); m != nil {
		hour, minute, err := clockValues(m[1], m[2])
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q: %v", domain.ErrInvalidTimeSpec, text, err)
		}
		target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if !target.After(now) {
			target = target.AddDate(0, 0, 1)
		}
		return target.UTC(), nil
	}

	for _, layout := range absoluteLayouts {
		target, err := time.ParseInLocation(layout, spec, now.Location())
		if err != nil {
			continue
		}
		if !target.After(now) {
			return time.Time{}, fmt.Errorf("%w: %q is in the past", domain.ErrInvalidTimeSpec, text)
		}
		return target.UTC(), nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidTimeSpec, text)
}

// ParseIn parses a compact duration of concatenated <n><unit> segments where
// unit is d, h or m, in that order, e.g. "45m", "3h", "1d2h30m". At least one
// segment is required and the result must be positive.
func ParseIn(text string) (time.Duration, error) {
	spec := strings.TrimSpace(text)
	if spec == "" {
		return 0, fmt.Errorf("%w: empty duration", domain.ErrInvalidTimeSpec)
	}

	m := durationRe.FindStringSubmatch(spec)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidTimeSpec, text)
	}

	var total time.Duration
	for i, unit := range []time.Duration{24 * time.Hour, time.Hour, time.Minute} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", domain.ErrInvalidTimeSpec, text, err)
		}
		total += time.Duration(n) * unit
	}
	if total <= 0 {
		return 0, fmt.Errorf("%w: %q: duration must be positive", domain.ErrInvalidTimeSpec, text)
	}
	return total, nil
}

func clockValues(hourStr, minuteStr string) (int, int, error) {
	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		return 0, 0, err
	}
	minute, err := strconv.Atoi(minuteStr)
	if err != nil {
		return 0, 0, err
	}
	if hour > 23 || minute > 59 {
		return 0, 0, fmt.Errorf("%02d:%02d is not a valid clock time", hour, minute)
	}
	return hour, minute, nil
}
