package availability

import (
	"sync"
	"time"

	"github.com/mtzs0/kockabarlang-party-planner/reservation"
)

// Tracker holds the caller's currently selected date. Results computed for
// any other date are stale and must be dropped.
type Tracker struct {
	mu       sync.Mutex
	selected string
}

// Select makes date the current selection and returns the request to resolve.
func (t *Tracker) Select(date time.Time) Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selected = date.Format(reservation.DateLayout)
	return Request{Date: date}
}

// Accept reports whether res answers the current selection.
func (t *Tracker) Accept(res Result) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.selected != "" && t.selected == res.Date.Format(reservation.DateLayout)
}

// Selected returns the current selection as YYYY-MM-DD, or "" if nothing is selected.
func (t *Tracker) Selected() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.selected
}
