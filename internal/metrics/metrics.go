package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consumptions_requests_total",
			Help: "Total number of requests per route",
		},
		[]string{"route", "method"},
	)

	RequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "consumptions_request_duration_seconds",
			Help:    "Request duration in seconds per route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	RequestErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consumptions_request_errors_total",
			Help: "Total number of error responses per route and status code",
		},
		[]string{"route", "code"},
	)
)

var (
	CalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consumptions_calculations_total",
			Help: "Total number of bill calculations per energy type and outcome",
		},
		[]string{"energy_type", "outcome"},
	)

	CalculationDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "consumptions_calculation_duration_seconds",
			Help:    "Bill calculation duration in seconds per energy type",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"energy_type"},
	)

	PersistedRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consumptions_persisted_rows_total",
			Help: "Total number of bill and consumption record rows written",
		},
		[]string{"kind"},
	)

	BillingPeriodsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consumptions_billing_periods_total",
			Help: "Total number of billing period lifecycle operations",
		},
		[]string{"action"},
	)
)

// ObserveCalculation records the duration and outcome of one engine run.
// outcome is "ok", "invalid_input" or "negative".
func ObserveCalculation(energyType, outcome string, startedAt time.Time) {
	CalculationDurationSeconds.WithLabelValues(energyType).Observe(time.Since(startedAt).Seconds())
	CalculationsTotal.WithLabelValues(energyType, outcome).Inc()
}

func AddPersistedRows(bills, records int) {
	PersistedRowsTotal.WithLabelValues("energy_bill").Add(float64(bills))
	PersistedRowsTotal.WithLabelValues("consumption_record").Add(float64(records))
}
