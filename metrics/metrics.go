package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_http_requests_total",
		Help: "Total number of HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "crm_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// Registration flow
	GSTLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_gst_lookups_total",
		Help: "GST lookups by source (provider, mock, fallback) and outcome.",
	}, []string{"source", "outcome"})
	OTPIssuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_otp_issued_total",
		Help: "OTP challenges issued, by delivery result (sent, logged, failed).",
	}, []string{"delivery"})
	OTPVerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_otp_verifications_total",
		Help: "OTP verification attempts by result.",
	}, []string{"result"})
	RateLimitRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_rate_limit_rejections_total",
		Help: "Requests rejected by the rate limiter, by operation.",
	}, []string{"operation"})
	SubdealersRegisteredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crm_subdealers_registered_total",
		Help: "Total number of subdealers registered.",
	})

	// Auth
	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_login_attempts_total",
		Help: "Total number of login attempts (success or failed).",
	}, []string{"status"})

	// CRM
	LeadsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crm_leads_created_total",
		Help: "Total number of leads created.",
	})
	LeadsConvertedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crm_leads_converted_total",
		Help: "Total number of leads converted into accounts.",
	})
)
