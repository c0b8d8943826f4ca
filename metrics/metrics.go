// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Attribution outcomes
const (
	OutcomeCredited = "credited"
	OutcomeSkipped  = "skipped"
	OutcomeFailed   = "failed"
)

var (
	BookingsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vastu",
		Name:      "bookings_created_total",
		Help:      "Bookings created, by service type.",
	}, []string{"service_type"})

	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vastu",
		Name:      "booking_status_transitions_total",
		Help:      "Booking status changes, by source and target status.",
	}, []string{"from", "to"})

	Attributions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vastu",
		Name:      "referral_attributions_total",
		Help:      "Referral attribution runs, by outcome.",
	}, []string{"outcome"})

	CommissionCredited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "vastu",
		Name:      "commission_credited_total",
		Help:      "Base commission credited to BAs, in rupees.",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vastu",
		Name:      "http_requests_total",
		Help:      "HTTP requests, by method, route and status code.",
	}, []string{"method", "route", "code"})
)
