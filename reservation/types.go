package reservation

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

// Exact is a birthday party booked at one specific time on one date. Time is
// stored as entered: "HH:MM", "HH:MM:SS" or a full "HH:MM-HH:MM" bracket.
type Exact struct {
	Date time.Time `json:"date"`
	Time string    `json:"time"`
}

// Ranged spans every day in [StartDate, EndDate] with the same daily window.
type Ranged struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Type      string    `json:"type"`
}

// Covers reports whether date falls within the inclusive date span.
func (r Ranged) Covers(date time.Time) bool {
	d := date.Format(DateLayout)
	return r.StartDate.Format(DateLayout) <= d && d <= r.EndDate.Format(DateLayout)
}

// Birthday is the full record written by the confirmation step.
type Birthday struct {
	ID             uuid.UUID `json:"id"`
	Date           string    `json:"date" validate:"required,datetime=2006-01-02,not_past"`
	Time           string    `json:"time" validate:"required,time_bracket"`
	Theme          string    `json:"theme" validate:"required,max=200"`
	Child          string    `json:"child" validate:"required,max=100"`
	Parent         string    `json:"parent" validate:"required,max=100"`
	Phone          string    `json:"phone" validate:"required,hu_phone"`
	Email          string    `json:"email" validate:"required,email"`
	ChildBirthday  string    `json:"birthday" validate:"required,datetime=2006-01-02,not_future"`
	Message        string    `json:"message,omitempty" validate:"max=2000"`
	Invoice        string    `json:"invoice,omitempty" validate:"max=500"`
	AcceptedPolicy bool      `json:"accepted_policy" validate:"required"`
	CreatedAt      time.Time `json:"created_at"`
}
