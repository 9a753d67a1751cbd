package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mtzs0/kockabarlang-party-planner/reservation"
	"github.com/mtzs0/kockabarlang-party-planner/timeslot"
)

type SlotCatalog interface {
	SlotsForWeekday(ctx context.Context, weekday string) ([]timeslot.Range, error)
}

type ReservationQuery interface {
	ExactReservationsOn(ctx context.Context, date time.Time) ([]reservation.Exact, error)
	RangeReservationsCovering(ctx context.Context, date time.Time) ([]reservation.Ranged, error)
}

// Request asks for the availability of one date. The date travels back on the
// Result so callers can drop answers for a date that is no longer selected.
type Request struct {
	Date time.Time
}

type SlotStatus struct {
	timeslot.Range
	Available bool `json:"available"`
}

type Result struct {
	Date        time.Time        `json:"-"`
	Weekday     string           `json:"weekday"`
	Slots       []SlotStatus     `json:"slots"`
	Unavailable []timeslot.Range `json:"unavailable"`
	Degraded    []Source         `json:"degraded,omitempty"`

	problems []error
}

// Err joins the conditions the resolver degraded on, or nil.
func (r *Result) Err() error {
	return errors.Join(r.problems...)
}

// Available returns the free slots in catalog order.
func (r *Result) Available() []timeslot.Range {
	free := make([]timeslot.Range, 0, len(r.Slots))
	for _, s := range r.Slots {
		if s.Available {
			free = append(free, s.Range)
		}
	}
	return free
}

func (r *Result) degrade(source Source, err error) {
	r.Degraded = append(r.Degraded, source)
	r.problems = append(r.problems, fmt.Errorf("%s: %w: %w", source, ErrDataSourceUnavailable, err))
}
