package timeslot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ErrMalformedTime is returned when a time value cannot be parsed.
var ErrMalformedTime = errors.New("malformed time value")

const minutesPerDay = 24 * 60

// TimeOfDay is a naive wall-clock time stored as minutes since midnight.
type TimeOfDay int

// Midnight is the fallback value for unparsable times.
const Midnight TimeOfDay = 0

func NewTimeOfDay(hours, minutes int) TimeOfDay {
	return TimeOfDay(hours*60 + minutes)
}

func (t TimeOfDay) Minutes() int {
	return int(t)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(text []byte) error {
	parsed, err := ParseTime(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTime accepts "HH:MM" or "HH:MM:SS". Anything after the minutes is ignored.
func ParseTime(text string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(text), ":")
	if len(parts) < 2 {
		return Midnight, fmt.Errorf("%w: %q", ErrMalformedTime, text)
	}

	hours, err := parseDigits(parts[0])
	if err != nil || hours > 23 {
		return Midnight, fmt.Errorf("%w: hour in %q", ErrMalformedTime, text)
	}
	minutes, err := parseDigits(parts[1])
	if err != nil || minutes > 59 {
		return Midnight, fmt.Errorf("%w: minute in %q", ErrMalformedTime, text)
	}

	return NewTimeOfDay(hours, minutes), nil
}

// ParseTimeOr is the tolerant form of ParseTime: bad input yields fallback and a warning.
func ParseTimeOr(text string, fallback TimeOfDay, logger *zap.Logger) TimeOfDay {
	t, err := ParseTime(text)
	if err != nil {
		logger.Warn("invalid time value, using fallback",
			zap.String("value", text),
			zap.Stringer("fallback", fallback),
			zap.Error(err),
		)
		return fallback
	}
	return t
}

// parseDigits accepts one or two ASCII digits and nothing else, so signs and
// spaces are rejected.
func parseDigits(text string) (int, error) {
	if len(text) == 0 || len(text) > 2 {
		return 0, ErrMalformedTime
	}
	for _, c := range text {
		if c < '0' || c > '9' {
			return 0, ErrMalformedTime
		}
	}
	return strconv.Atoi(text)
}

// FormatHHMM truncates a time string to its "HH:MM" prefix.
func FormatHHMM(text string) string {
	if len(text) <= 5 {
		return text
	}
	return text[:5]
}
