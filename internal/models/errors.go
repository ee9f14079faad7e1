package models

import "errors"

// Error kinds surfaced to callers. Handlers map these onto HTTP statuses and
// the ApiResponse envelope; everything else is wrapped with context via fmt.Errorf.
var (
	// ErrInvalidDateRange is returned when check-out is not strictly after check-in.
	ErrInvalidDateRange = errors.New("check-out date must be after check-in date")

	// ErrTimeout marks a request that exceeded the client's bounded wait.
	ErrTimeout = errors.New("request timed out")

	// ErrTransport marks a network or HTTP-level failure after retries.
	ErrTransport = errors.New("transport failure")

	// ErrDataFormat marks an unexpected response shape with no safe fallback.
	ErrDataFormat = errors.New("unexpected response format")

	// ErrBookingFailed marks a booking the upstream rejected.
	ErrBookingFailed = errors.New("booking was not accepted")

	// ErrPaymentFailed marks a payment verification that was rejected or errored.
	ErrPaymentFailed = errors.New("payment verification failed")

	// ErrSubmissionInFlight rejects a second submission while one is running.
	ErrSubmissionInFlight = errors.New("another booking submission is in progress")
)
