package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mtzs0/kockabarlang-party-planner/api"
	"github.com/mtzs0/kockabarlang-party-planner/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	catalogQuery = `SELECT timeslot FROM weekday_timeslots WHERE day = $1 ORDER BY position`
	exactQuery   = `SELECT date, time FROM birthday_reservations WHERE date = $1`
	rangeQuery   = `SELECT start_date, end_date, start_time, end_time, type FROM range_reservations WHERE start_date <= $1 AND end_date >= $1`
)

type fakeNotifier struct {
	delivery *notify.Delivery
	err      error
	payloads []any
}

func (f *fakeNotifier) Forward(_ context.Context, payload any) (*notify.Delivery, error) {
	f.payloads = append(f.payloads, payload)
	return f.delivery, f.err
}

// fixedNow sits before the party date used by the reservation fixtures.
func fixedNow() time.Time {
	return time.Date(2025, time.May, 20, 12, 0, 0, 0, time.UTC)
}

func setupAPI(t *testing.T, opts api.Options) (*api.API, sqlmock.Sqlmock) {
	t.Helper()
	if opts.Now == nil {
		opts.Now = fixedNow
	}
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	a, err := api.NewAPI(db, opts)
	require.NoError(t, err)
	a.RegisterRoutes()
	return a, dbMock
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var res api.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, rec.Code, res.Status)
	body, ok := res.Response.(map[string]any)
	require.True(t, ok, "response is %T", res.Response)
	return body
}

func TestAvailabilityAPI(t *testing.T) {
	t.Parallel()

	monday := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)

	t.Run("marks taken slots", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t, api.Options{})
		dbMock.MatchExpectationsInOrder(false)

		dbMock.ExpectQuery(regexp.QuoteMeta(catalogQuery)).
			WithArgs("monday").
			WillReturnRows(sqlmock.NewRows([]string{"timeslot"}).AddRow("10:00-13:00").AddRow("14:00-17:00"))
		dbMock.ExpectQuery(regexp.QuoteMeta(exactQuery)).
			WithArgs("2025-06-02").
			WillReturnRows(sqlmock.NewRows([]string{"date", "time"}).AddRow(monday, "11:00:00"))
		dbMock.ExpectQuery(regexp.QuoteMeta(rangeQuery)).
			WithArgs("2025-06-02").
			WillReturnRows(sqlmock.NewRows([]string{"start_date", "end_date", "start_time", "end_time", "type"}))

		req := httptest.NewRequest(http.MethodGet, "/api/availability?date=2025-06-02", nil)
		rec := httptest.NewRecorder()
		a.Router().ServeHTTP(rec, req)

		require.NoError(t, dbMock.ExpectationsWereMet())
		assert.Equal(t, http.StatusOK, rec.Code)

		body := decode(t, rec)
		assert.Equal(t, "2025-06-02", body["date"])
		assert.Equal(t, "monday", body["weekday"])
		assert.Nil(t, body["degraded"])

		slots, ok := body["slots"].([]any)
		require.True(t, ok)
		require.Len(t, slots, 2)
		first := slots[0].(map[string]any)
		assert.Equal(t, "10:00-13:00", first["label"])
		assert.Equal(t, "10:00", first["start"])
		assert.Equal(t, false, first["available"])
		assert.Equal(t, true, slots[1].(map[string]any)["available"])

		unavailable, ok := body["unavailable"].([]any)
		require.True(t, ok)
		require.Len(t, unavailable, 1)
		assert.Equal(t, "10:00-13:00", unavailable[0].(map[string]any)["label"])
	})

	t.Run("reservation source failure is reported as degraded", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t, api.Options{})
		dbMock.MatchExpectationsInOrder(false)

		dbMock.ExpectQuery(regexp.QuoteMeta(catalogQuery)).
			WithArgs("monday").
			WillReturnRows(sqlmock.NewRows([]string{"timeslot"}).AddRow("10:00-13:00"))
		dbMock.ExpectQuery(regexp.QuoteMeta(exactQuery)).
			WithArgs("2025-06-02").
			WillReturnError(errors.New("connection reset"))
		dbMock.ExpectQuery(regexp.QuoteMeta(rangeQuery)).
			WithArgs("2025-06-02").
			WillReturnRows(sqlmock.NewRows([]string{"start_date", "end_date", "start_time", "end_time", "type"}))

		req := httptest.NewRequest(http.MethodGet, "/api/availability?date=2025-06-02", nil)
		rec := httptest.NewRecorder()
		a.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, []any{"exact_reservations"}, body["degraded"])
		assert.Len(t, body["slots"], 1)
	})

	t.Run("invalid date", func(t *testing.T) {
		t.Parallel()
		a, _ := setupAPI(t, api.Options{})

		for _, q := range []string{"", "?date=02/06/2025", "?date=2025-13-01"} {
			req := httptest.NewRequest(http.MethodGet, "/api/availability"+q, nil)
			rec := httptest.NewRecorder()
			a.Router().ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		}
	})
}

func TestSlotsAPI(t *testing.T) {
	t.Parallel()

	t.Run("lists weekday slots", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t, api.Options{})

		dbMock.ExpectQuery(regexp.QuoteMeta(catalogQuery)).
			WithArgs("saturday").
			WillReturnRows(sqlmock.NewRows([]string{"timeslot"}).AddRow("09:00-12:00"))

		req := httptest.NewRequest(http.MethodGet, "/api/slots/Saturday", nil)
		rec := httptest.NewRecorder()
		a.Router().ServeHTTP(rec, req)

		require.NoError(t, dbMock.ExpectationsWereMet())
		assert.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "saturday", body["weekday"])
		assert.Len(t, body["slots"], 1)
	})

	t.Run("unknown weekday", func(t *testing.T) {
		t.Parallel()
		a, _ := setupAPI(t, api.Options{})

		req := httptest.NewRequest(http.MethodGet, "/api/slots/someday", nil)
		rec := httptest.NewRecorder()
		a.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
