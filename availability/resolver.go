package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/mtzs0/kockabarlang-party-planner/catalog"
	"github.com/mtzs0/kockabarlang-party-planner/reservation"
	"github.com/mtzs0/kockabarlang-party-planner/timeslot"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Resolver reconciles the weekday slot catalog against stored reservations.
// It only reads and may be called again whenever the selected date changes.
type Resolver struct {
	catalog      SlotCatalog
	reservations ReservationQuery
	logger       *zap.Logger
}

func NewResolver(slots SlotCatalog, reservations ReservationQuery, logger *zap.Logger) *Resolver {
	return &Resolver{
		catalog:      slots,
		reservations: reservations,
		logger:       logger,
	}
}

// UnavailableSlots returns the catalog slots of date's weekday that are taken.
func (r *Resolver) UnavailableSlots(ctx context.Context, date time.Time) []timeslot.Range {
	res := r.Resolve(ctx, Request{Date: date})
	return res.Unavailable
}

// Resolve never fails: a query that errors contributes nothing and is listed
// in Result.Degraded.
func (r *Resolver) Resolve(ctx context.Context, req Request) Result {
	weekday := catalog.WeekdayOf(req.Date)
	res := Result{
		Date:        req.Date,
		Weekday:     weekday,
		Slots:       []SlotStatus{},
		Unavailable: []timeslot.Range{},
	}
	log := r.logger.With(zap.String("date", req.Date.Format(reservation.DateLayout)), zap.String("weekday", weekday))

	slots, err := r.catalog.SlotsForWeekday(ctx, weekday)
	if err != nil {
		log.Warn("slot catalog unavailable", zap.Error(err))
		res.degrade(SourceCatalog, err)
		return res
	}
	if len(slots) == 0 {
		log.Debug("no slots defined")
		res.problems = append(res.problems, fmt.Errorf("%s: %w", weekday, ErrNoSlotsDefined))
		return res
	}

	// Reservation fetches start only after the catalog answers.
	var (
		exact               []reservation.Exact
		ranged              []reservation.Ranged
		exactErr, rangedErr error
		g                   errgroup.Group
	)
	g.Go(func() error {
		exact, exactErr = r.reservations.ExactReservationsOn(ctx, req.Date)
		return nil
	})
	g.Go(func() error {
		ranged, rangedErr = r.reservations.RangeReservationsCovering(ctx, req.Date)
		return nil
	})
	_ = g.Wait()

	if exactErr != nil {
		log.Warn("exact reservations unavailable", zap.Error(exactErr))
		res.degrade(SourceExact, exactErr)
		exact = nil
	}
	if rangedErr != nil {
		log.Warn("range reservations unavailable", zap.Error(rangedErr))
		res.degrade(SourceRanged, rangedErr)
		ranged = nil
	}

	blocked := make([]bool, len(slots))
	r.markExact(log, req.Date, slots, exact, blocked)
	r.markRanged(log, req.Date, slots, ranged, blocked)

	for i, s := range slots {
		res.Slots = append(res.Slots, SlotStatus{Range: s, Available: !blocked[i]})
		if blocked[i] {
			res.Unavailable = append(res.Unavailable, s)
		}
	}
	return res
}

func (r *Resolver) markExact(log *zap.Logger, date time.Time, slots []timeslot.Range, exact []reservation.Exact, blocked []bool) {
	day := date.Format(reservation.DateLayout)
	for _, e := range exact {
		if !e.Date.IsZero() && e.Date.Format(reservation.DateLayout) != day {
			continue
		}
		at, err := timeslot.ParseTime(timeslot.FormatHHMM(e.Time))
		if err != nil {
			log.Warn("skipping reservation with malformed time", zap.String("time", e.Time), zap.Error(err))
			continue
		}
		for i, s := range slots {
			if s.IsPoint() {
				if s.Start == at {
					blocked[i] = true
				}
				continue
			}
			if s.Contains(at) {
				blocked[i] = true
			}
		}
	}
}

func (r *Resolver) markRanged(log *zap.Logger, date time.Time, slots []timeslot.Range, ranged []reservation.Ranged, blocked []bool) {
	for _, rr := range ranged {
		if !rr.Covers(date) {
			continue
		}
		start, err := timeslot.ParseTime(timeslot.FormatHHMM(rr.StartTime))
		if err != nil {
			log.Warn("skipping range reservation with malformed start", zap.String("start_time", rr.StartTime), zap.String("type", rr.Type), zap.Error(err))
			continue
		}
		end, err := timeslot.ParseTime(timeslot.FormatHHMM(rr.EndTime))
		if err != nil {
			log.Warn("skipping range reservation with malformed end", zap.String("end_time", rr.EndTime), zap.String("type", rr.Type), zap.Error(err))
			continue
		}
		if start >= end {
			log.Warn("skipping empty range reservation window", zap.Stringer("start", start), zap.Stringer("end", end), zap.String("type", rr.Type))
			continue
		}

		window := timeslot.NewRange(start, end)
		for i, s := range slots {
			if s.IsPoint() {
				if window.Contains(s.Start) {
					blocked[i] = true
				}
				continue
			}
			if window.Overlaps(s) {
				blocked[i] = true
			}
		}
	}
}
