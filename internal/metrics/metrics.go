package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frangapp_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "frangapp_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	DepositsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frangapp_deposits_total",
			Help: "Top-up attempts by terminal outcome",
		},
		[]string{"outcome"},
	)

	DepositUnitsCredited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "frangapp_deposit_units_credited_total",
			Help: "Balance units credited to applications",
		},
	)

	ReconciliationAlertsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "frangapp_deposit_reconciliation_alerts_total",
			Help: "Charges captured by the gateway whose credit could not be recorded",
		},
	)

	GatewayChargeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "frangapp_gateway_charge_duration_seconds",
			Help:    "Payment gateway charge latency in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"result"},
	)

	GatewayCircuitState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "frangapp_gateway_circuit_open",
			Help: "1 while the payment gateway circuit breaker is open",
		},
	)

	EmailsQueuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frangapp_emails_queued_total",
			Help: "Total number of emails queued",
		},
		[]string{"type", "status"},
	)

	SettingsCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frangapp_settings_cache_total",
			Help: "Settings cache lookups by result",
		},
		[]string{"result"},
	)
)

const (
	OutcomeCredited        = "credited"
	OutcomeValidation      = "validation_rejected"
	OutcomeNotFound        = "not_found"
	OutcomePaymentRejected = "payment_rejected"
	OutcomeCreditPending   = "credit_pending"
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordDeposit(outcome string) {
	DepositsTotal.WithLabelValues(outcome).Inc()
}

func RecordCredit(units int) {
	DepositUnitsCredited.Add(float64(units))
}

func RecordReconciliationAlert() {
	ReconciliationAlertsTotal.Inc()
}

func RecordGatewayCharge(result string, seconds float64) {
	GatewayChargeDuration.WithLabelValues(result).Observe(seconds)
}

func SetGatewayCircuitOpen(open bool) {
	if open {
		GatewayCircuitState.Set(1)
		return
	}
	GatewayCircuitState.Set(0)
}

func RecordEmail(emailType, status string) {
	EmailsQueuedTotal.WithLabelValues(emailType, status).Inc()
}

func RecordSettingsCache(result string) {
	SettingsCacheTotal.WithLabelValues(result).Inc()
}
