package reservation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

func (a *Accessor) ExactReservationsOn(ctx context.Context, date time.Time) ([]Exact, error) {
	query := `SELECT date, time FROM birthday_reservations WHERE date = $1`
	rows, err := a.db.QueryContext(ctx, query, date.Format(DateLayout))
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	var reservations []Exact
	for rows.Next() {
		var r Exact
		if err := rows.Scan(&r.Date, &r.Time); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		reservations = append(reservations, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return reservations, nil
}

func (a *Accessor) RangeReservationsCovering(ctx context.Context, date time.Time) ([]Ranged, error) {
	query := `SELECT start_date, end_date, start_time, end_time, type FROM range_reservations WHERE start_date <= $1 AND end_date >= $1`
	rows, err := a.db.QueryContext(ctx, query, date.Format(DateLayout))
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	var reservations []Ranged
	for rows.Next() {
		var r Ranged
		var kind sql.NullString
		if err := rows.Scan(&r.StartDate, &r.EndDate, &r.StartTime, &r.EndTime, &kind); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		r.Type = kind.String
		reservations = append(reservations, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return reservations, nil
}

// CreateBirthday stores a confirmed birthday reservation. No availability
// check is made here.
func (a *Accessor) CreateBirthday(ctx context.Context, b Birthday, now time.Time) (*Birthday, error) {
	id := uuid.New()

	query := `INSERT INTO birthday_reservations (id, date, time, theme, child, parent, phone, email, birthday, message, invoice, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	if _, err := a.db.ExecContext(ctx, query,
		id, b.Date, b.Time, b.Theme, b.Child, b.Parent, b.Phone, b.Email, b.ChildBirthday,
		nullString(b.Message), nullString(b.Invoice), now,
	); err != nil {
		return nil, fmt.Errorf("exec context: %w", err)
	}

	b.ID = id
	b.CreatedAt = now
	return &b, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
