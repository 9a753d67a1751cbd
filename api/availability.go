package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/mtzs0/kockabarlang-party-planner/availability"
	"github.com/mtzs0/kockabarlang-party-planner/reservation"
	"github.com/mtzs0/kockabarlang-party-planner/timeslot"
	"go.uber.org/zap"
)

type availabilityResponse struct {
	Date string `json:"date"`
	availability.Result
}

// getAvailability always answers 200 for a valid date; failing sources are
// listed under "degraded" instead of failing the request.
func (a *API) getAvailability(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		a.Response(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	res := a.resolver.Resolve(r.Context(), availability.Request{Date: date})
	a.Response(w, http.StatusOK, availabilityResponse{
		Date:   res.Date.Format(reservation.DateLayout),
		Result: res,
	})
}

var weekdays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

type getSlotsResponse struct {
	Weekday string           `json:"weekday"`
	Slots   []timeslot.Range `json:"slots"`
}

func (a *API) getSlots(w http.ResponseWriter, r *http.Request) {
	weekday := strings.ToLower(mux.Vars(r)["weekday"])
	if !weekdays[weekday] {
		a.Response(w, http.StatusBadRequest, "invalid weekday")
		return
	}

	slots, err := a.catalog.SlotsForWeekday(r.Context(), weekday)
	if err != nil {
		a.logger.Error("get slots", zap.String("weekday", weekday), zap.Error(err))
		a.Response(w, http.StatusInternalServerError, err.Error())
		return
	}
	if slots == nil {
		slots = []timeslot.Range{}
	}
	a.Response(w, http.StatusOK, getSlotsResponse{Weekday: weekday, Slots: slots})
}
