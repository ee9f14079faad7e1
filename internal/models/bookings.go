package models

import (
	"time"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingConfirmed BookingStatus = "Confirmed"
)

// BookingRequest is what the guest submits from the booking form.
// Check-out must be strictly after check-in; the orchestrator enforces that
// rule on top of these tags because validator cannot compare parsed dates.
type BookingRequest struct {
	ApartmentID string `json:"apartment_id" validate:"required"`
	CheckIn     string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut    string `json:"check_out" validate:"required,datetime=2006-01-02"`
	Guests      int    `json:"guests" validate:"required,min=1,max=10"`
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required"`
}

func (b BookingRequest) CheckInDate() (time.Time, error) {
	return time.Parse("2006-01-02", b.CheckIn)
}

func (b BookingRequest) CheckOutDate() (time.Time, error) {
	return time.Parse("2006-01-02", b.CheckOut)
}

// BookingRecord is one row in the Bookings sheet. Reference doubles as the
// payment reference so the two records stay linked.
type BookingRecord struct {
	Reference        string        `json:"reference"`
	ApartmentTitle   string        `json:"apartment_title"`
	CheckIn          string        `json:"check_in"`
	CheckOut         string        `json:"check_out"`
	Guests           int           `json:"guests"`
	Name             string        `json:"name"`
	Email            string        `json:"email"`
	Phone            string        `json:"phone"`
	Amount           float64       `json:"amount"`
	Status           BookingStatus `json:"status"`
	PaymentReference string        `json:"payment_reference,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
}

// PaymentResult is the transient outcome of one payment callback.
type PaymentResult struct {
	Reference string `json:"reference"`
	Verified  bool   `json:"verified"`
	Message   string `json:"message,omitempty"`
}

// SubmitResult is the upstream's answer to a write action.
type SubmitResult struct {
	Success   bool   `json:"success"`
	BookingID string `json:"bookingId,omitempty"`
	Message   string `json:"message,omitempty"`
}
