package api

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tichopad/consumptions/internal/bills"
	"github.com/tichopad/consumptions/internal/metrics"
	"github.com/tichopad/consumptions/internal/storage"
)

const apiPrefix = "/api/v1/"

// API serves the REST endpoints on top of storage and the bills service.
type API struct {
	store    storage.Storage
	bills    *bills.Service
	validate *Validator
}

// NewMux constructs the HTTP mux, wiring in the API, metrics, and health endpoints.
func NewMux(st storage.Storage) *http.ServeMux {
	a := &API{
		store:    st,
		bills:    bills.NewService(st),
		validate: NewValidator(),
	}

	mux := http.NewServeMux()

	// Metrics endpoint.
	mux.Handle("/metrics", promhttp.Handler())

	// Health / readiness / liveness.
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			log.Printf("readyz: db ping failed: %v", err)
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("live"))
	})

	mux.Handle(apiPrefix, a)

	return mux
}

// endpoint is a resolved route with its handlers per method. route is the
// path template used as the metrics label.
type endpoint struct {
	route   string
	methods map[string]http.HandlerFunc
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	// Expected paths: /api/v1/{collection}/{id}/{action...}
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, apiPrefix), "/")
	parts := strings.Split(path, "/")

	ep, ok := a.resolve(parts)
	if !ok {
		metrics.RequestErrorsTotal.WithLabelValues("unknown", "404").Inc()
		http.NotFound(w, r)
		return
	}

	defer func() {
		dur := time.Since(start).Seconds()
		metrics.RequestDurationSeconds.WithLabelValues(ep.route, r.Method).Observe(dur)
	}()
	metrics.RequestsTotal.WithLabelValues(ep.route, r.Method).Inc()

	h, ok := ep.methods[r.Method]
	if !ok {
		metrics.RequestErrorsTotal.WithLabelValues(ep.route, "405").Inc()
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	h(rec, r)
	if rec.status >= 400 {
		metrics.RequestErrorsTotal.WithLabelValues(ep.route, strconv.Itoa(rec.status)).Inc()
	}
}

func (a *API) resolve(parts []string) (endpoint, bool) {
	for _, p := range parts {
		if p == "" {
			return endpoint{}, false
		}
	}
	switch {
	case len(parts) == 1 && parts[0] == "buildings":
		return endpoint{"/buildings", map[string]http.HandlerFunc{
			http.MethodGet:  a.listBuildings,
			http.MethodPost: a.createBuilding,
		}}, true
	case len(parts) == 2 && parts[0] == "buildings":
		id := parts[1]
		return endpoint{"/buildings/{id}", map[string]http.HandlerFunc{
			http.MethodGet:    func(w http.ResponseWriter, r *http.Request) { a.getBuilding(w, r, id) },
			http.MethodPut:    func(w http.ResponseWriter, r *http.Request) { a.updateBuilding(w, r, id) },
			http.MethodDelete: func(w http.ResponseWriter, r *http.Request) { a.deleteBuilding(w, r, id) },
		}}, true
	case len(parts) == 3 && parts[0] == "buildings" && parts[2] == "occupants":
		id := parts[1]
		return endpoint{"/buildings/{id}/occupants", map[string]http.HandlerFunc{
			http.MethodGet:  func(w http.ResponseWriter, r *http.Request) { a.listOccupants(w, r, id) },
			http.MethodPost: func(w http.ResponseWriter, r *http.Request) { a.createOccupant(w, r, id) },
		}}, true
	case len(parts) == 3 && parts[0] == "buildings" && parts[2] == "billing-periods":
		id := parts[1]
		return endpoint{"/buildings/{id}/billing-periods", map[string]http.HandlerFunc{
			http.MethodGet:  func(w http.ResponseWriter, r *http.Request) { a.listBillingPeriods(w, r, id) },
			http.MethodPost: func(w http.ResponseWriter, r *http.Request) { a.createBillingPeriod(w, r, id, false) },
		}}, true
	case len(parts) == 4 && parts[0] == "buildings" && parts[2] == "billing-periods" && parts[3] == "preview":
		id := parts[1]
		return endpoint{"/buildings/{id}/billing-periods/preview", map[string]http.HandlerFunc{
			http.MethodPost: func(w http.ResponseWriter, r *http.Request) { a.createBillingPeriod(w, r, id, true) },
		}}, true

	case len(parts) == 2 && parts[0] == "occupants":
		id := parts[1]
		return endpoint{"/occupants/{id}", map[string]http.HandlerFunc{
			http.MethodGet:    func(w http.ResponseWriter, r *http.Request) { a.getOccupant(w, r, id) },
			http.MethodPut:    func(w http.ResponseWriter, r *http.Request) { a.updateOccupant(w, r, id) },
			http.MethodDelete: func(w http.ResponseWriter, r *http.Request) { a.deleteOccupant(w, r, id) },
		}}, true
	case len(parts) == 3 && parts[0] == "occupants" && (parts[2] == "archive" || parts[2] == "restore"):
		id, archive := parts[1], parts[2] == "archive"
		return endpoint{"/occupants/{id}/" + parts[2], map[string]http.HandlerFunc{
			http.MethodPost: func(w http.ResponseWriter, r *http.Request) { a.archiveOccupant(w, r, id, archive) },
		}}, true
	case len(parts) == 3 && parts[0] == "occupants" && parts[2] == "devices":
		id := parts[1]
		return endpoint{"/occupants/{id}/devices", map[string]http.HandlerFunc{
			http.MethodGet:  func(w http.ResponseWriter, r *http.Request) { a.listDevices(w, r, id) },
			http.MethodPost: func(w http.ResponseWriter, r *http.Request) { a.createDevice(w, r, id) },
		}}, true

	case len(parts) == 2 && parts[0] == "devices":
		id := parts[1]
		return endpoint{"/devices/{id}", map[string]http.HandlerFunc{
			http.MethodGet:    func(w http.ResponseWriter, r *http.Request) { a.getDevice(w, r, id) },
			http.MethodPut:    func(w http.ResponseWriter, r *http.Request) { a.updateDevice(w, r, id) },
			http.MethodDelete: func(w http.ResponseWriter, r *http.Request) { a.deleteDevice(w, r, id) },
		}}, true
	case len(parts) == 3 && parts[0] == "devices" && parts[2] == "consumption-records":
		id := parts[1]
		return endpoint{"/devices/{id}/consumption-records", map[string]http.HandlerFunc{
			http.MethodGet: func(w http.ResponseWriter, r *http.Request) { a.listConsumptionRecords(w, r, id) },
		}}, true

	case len(parts) == 2 && parts[0] == "billing-periods":
		id := parts[1]
		return endpoint{"/billing-periods/{id}", map[string]http.HandlerFunc{
			http.MethodGet:    func(w http.ResponseWriter, r *http.Request) { a.getBillingPeriod(w, r, id) },
			http.MethodDelete: func(w http.ResponseWriter, r *http.Request) { a.deleteBillingPeriod(w, r, id) },
		}}, true
	case len(parts) == 3 && parts[0] == "billing-periods" && (parts[2] == "archive" || parts[2] == "restore"):
		id, archive := parts[1], parts[2] == "archive"
		return endpoint{"/billing-periods/{id}/" + parts[2], map[string]http.HandlerFunc{
			http.MethodPost: func(w http.ResponseWriter, r *http.Request) { a.archiveBillingPeriod(w, r, id, archive) },
		}}, true
	case len(parts) == 3 && parts[0] == "billing-periods" && (parts[2] == "export.xlsx" || parts[2] == "export.pdf"):
		id, format := parts[1], strings.TrimPrefix(parts[2], "export.")
		return endpoint{"/billing-periods/{id}/" + parts[2], map[string]http.HandlerFunc{
			http.MethodGet: func(w http.ResponseWriter, r *http.Request) { a.exportBillingPeriod(w, r, id, format) },
		}}, true
	}
	return endpoint{}, false
}

// includeArchived reads the optional ?archived= query flag.
func includeArchived(r *http.Request) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get("archived"))
	return err == nil && v
}
