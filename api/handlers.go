package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/netip"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/mtzs0/kockabarlang-party-planner/availability"
	"github.com/mtzs0/kockabarlang-party-planner/catalog"
	"github.com/mtzs0/kockabarlang-party-planner/notify"
	"github.com/mtzs0/kockabarlang-party-planner/reservation"
	"go.uber.org/zap"
)

// Notifier forwards confirmed reservations to an outside system.
type Notifier interface {
	Forward(ctx context.Context, payload any) (*notify.Delivery, error)
}

type Options struct {
	// Catalog overrides the database-backed weekday catalog, e.g. with a cache.
	Catalog               availability.SlotCatalog
	Notifier              Notifier
	ReservationsPerMinute int
	AllowedOrigins        []string
	// TrustedProxies lists IPs or CIDRs whose X-Forwarded-For header is
	// believed. Requests from anywhere else are keyed on their socket address.
	TrustedProxies []string
	Logger         *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

type API struct {
	router    *mux.Router
	db        *sql.DB
	catalog   availability.SlotCatalog
	resolver  *availability.Resolver
	validator *reservation.Validator
	notifier  Notifier
	limiter   *limiterStore
	proxies   []netip.Prefix
	origins   []string
	logger    *zap.Logger
	now       func() time.Time
}

func NewAPI(db *sql.DB, opts Options) (*API, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	slots := opts.Catalog
	if slots == nil {
		slots = catalog.NewAccessor(db, logger)
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.NewWebhook("", 0, logger)
	}
	perMinute := opts.ReservationsPerMinute
	if perMinute <= 0 {
		perMinute = 10
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	proxies, err := parseTrustedProxies(opts.TrustedProxies)
	if err != nil {
		return nil, err
	}

	v, err := reservation.NewValidator(logger, now)
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()
	r = r.PathPrefix("/api").Subrouter()
	return &API{
		router:    r,
		db:        db,
		catalog:   slots,
		resolver:  availability.NewResolver(slots, reservation.NewAccessor(db), logger),
		validator: v,
		notifier:  notifier,
		limiter:   newLimiterStore(perMinute, now),
		proxies:   proxies,
		origins:   opts.AllowedOrigins,
		logger:    logger,
		now:       now,
	}, nil
}

func (a *API) Router() http.Handler {
	return a.router
}

// Handler wraps the router with CORS for the embedded widget and access logging.
func (a *API) Handler() http.Handler {
	origins := a.origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)
	return handlers.LoggingHandler(os.Stdout, cors(a.router))
}

type Response struct {
	Status   int `json:"status"`
	Response any `json:"response"`
}

func (a *API) Response(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(Response{
		Status:   status,
		Response: data,
	})
	if err != nil {
		a.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (a *API) RegisterRoutes() {
	a.router.HandleFunc("/health", a.health).Methods(http.MethodGet)
	a.router.HandleFunc("/availability", a.getAvailability).Methods(http.MethodGet)
	a.router.HandleFunc("/slots/{weekday}", a.getSlots).Methods(http.MethodGet)
	a.router.HandleFunc("/themes", a.getThemes).Methods(http.MethodGet)
	a.router.HandleFunc("/reservations", a.rateLimited(a.createReservation)).Methods(http.MethodPost)
}

var errDateRequired = errors.New("date is required")

func parseDate(text string) (time.Time, error) {
	if text == "" {
		return time.Time{}, errDateRequired
	}
	return time.ParseInLocation(reservation.DateLayout, text, time.Local)
}
