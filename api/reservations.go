package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mtzs0/kockabarlang-party-planner/notify"
	"github.com/mtzs0/kockabarlang-party-planner/reservation"
	"go.uber.org/zap"
)

type createReservationResponse struct {
	Reservation *reservation.Birthday `json:"reservation"`
	Notified    bool                  `json:"notified"`
	Webhook     *notify.Delivery      `json:"webhook,omitempty"`
}

func (a *API) createReservation(w http.ResponseWriter, r *http.Request) {
	var req reservation.Birthday
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.Response(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := a.validator.Validate(&req); err != nil {
		var verrs reservation.ValidationErrors
		if errors.As(err, &verrs) {
			a.Response(w, http.StatusBadRequest, verrs)
			return
		}
		a.Response(w, http.StatusBadRequest, err.Error())
		return
	}

	reservationAccessor := reservation.NewAccessor(a.db)
	created, err := reservationAccessor.CreateBirthday(r.Context(), req, a.now())
	if err != nil {
		a.logger.Error("create reservation", zap.String("date", req.Date), zap.String("time", req.Time), zap.Error(err))
		a.Response(w, http.StatusInternalServerError, "could not save reservation")
		return
	}
	a.logger.Info("reservation created",
		zap.Stringer("id", created.ID),
		zap.String("date", created.Date),
		zap.String("time", created.Time),
		zap.String("theme", created.Theme),
	)

	response := createReservationResponse{Reservation: created}
	delivery, err := a.notifier.Forward(r.Context(), created)
	switch {
	case err == nil:
		response.Notified = true
		response.Webhook = delivery
	case errors.Is(err, notify.ErrDisabled):
	default:
		// The reservation is stored; a failed notification must not undo it.
		a.logger.Error("forward reservation", zap.Stringer("id", created.ID), zap.Error(err))
		response.Webhook = delivery
	}

	a.Response(w, http.StatusCreated, response)
}
