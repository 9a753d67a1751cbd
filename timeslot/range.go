package timeslot

import (
	"errors"
	"fmt"
	"strings"
)

// Range is a half-open interval [Start, End) within a day. A Range with
// Start == End is a point slot: a single bookable start time.
type Range struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
	Label string    `json:"label"`
}

func NewRange(start, end TimeOfDay) Range {
	return Range{Start: start, End: end, Label: start.String() + "-" + end.String()}
}

// ParseRange parses "HH:MM-HH:MM" or a single "HH:MM" point. The original text
// is kept as the label.
func ParseRange(text string) (Range, error) {
	label := strings.TrimSpace(text)
	startText, endText, isRange := strings.Cut(label, "-")

	start, err := ParseTime(startText)
	if err != nil {
		return Range{}, fmt.Errorf("start: %w", err)
	}
	if !isRange {
		return Range{Start: start, End: start, Label: label}, nil
	}

	end, err := ParseTime(endText)
	if err != nil {
		return Range{}, fmt.Errorf("end: %w", err)
	}

	if start == end {
		return Range{}, errors.New("range start equals end")
	}

	r := Range{Start: start, End: end, Label: label}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

func (r *Range) Validate() error {
	if r.Start > r.End {
		return errors.New("start time is after end time")
	}
	if r.End.Minutes() > minutesPerDay {
		return errors.New("end time is past midnight")
	}
	return nil
}

func (r Range) IsPoint() bool {
	return r.Start == r.End
}

// Contains reports whether t falls in [Start, End). A point never contains anything.
func (r Range) Contains(t TimeOfDay) bool {
	return r.Start <= t && t < r.End
}

// Overlaps uses the half-open rule: touching endpoints do not overlap and
// zero-length ranges overlap nothing.
func (r Range) Overlaps(other Range) bool {
	if r.IsPoint() || other.IsPoint() {
		return false
	}
	return r.Start < other.End && r.End > other.Start
}

func (r Range) String() string {
	if r.Label != "" {
		return r.Label
	}
	return r.Start.String() + "-" + r.End.String()
}
