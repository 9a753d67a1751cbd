package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mtzs0/kockabarlang-party-planner/timeslot"
	"go.uber.org/zap"
)

// WeekdayOf returns the lower-case English weekday name of date.
func WeekdayOf(date time.Time) string {
	return strings.ToLower(date.Weekday().String())
}

// SlotsForWeekday returns the bookable ranges for weekday in catalog order.
// Rows whose range text cannot be parsed are skipped.
func (a *Accessor) SlotsForWeekday(ctx context.Context, weekday string) ([]timeslot.Range, error) {
	query := `SELECT timeslot FROM weekday_timeslots WHERE day = $1 ORDER BY position`
	rows, err := a.db.QueryContext(ctx, query, strings.ToLower(weekday))
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	var slots []timeslot.Range
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		r, err := timeslot.ParseRange(text)
		if err != nil {
			a.logger.Warn("skipping unparsable catalog slot",
				zap.String("day", weekday),
				zap.String("timeslot", text),
				zap.Error(err),
			)
			continue
		}
		slots = append(slots, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return slots, nil
}
