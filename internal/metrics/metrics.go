package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jeffston",
			Name:      "booking_created_total",
			Help:      "Count of booking submissions by outcome.",
		},
		[]string{"outcome"},
	)

	paymentVerified = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jeffston",
			Name:      "payment_verified_total",
			Help:      "Count of payment verifications by outcome.",
		},
		[]string{"outcome"},
	)

	fallbackServed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jeffston",
			Name:      "fallback_served_total",
			Help:      "Count of fallback datasets served per resource.",
		},
		[]string{"resource"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, paymentVerified, fallbackServed)
	})
}

func IncBookingCreated(outcome string) {
	bookingCreated.WithLabelValues(outcome).Inc()
}

func IncPaymentVerified(outcome string) {
	paymentVerified.WithLabelValues(outcome).Inc()
}

func IncFallbackServed(resource string) {
	fallbackServed.WithLabelValues(resource).Inc()
}
