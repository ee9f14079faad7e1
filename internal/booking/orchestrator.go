// Package booking sequences one booking submission end to end: form
// validation, quote, booking creation, payment, verification. One
// orchestrator serves one booking form; submissions are serialized so the
// guest can never double-charge themselves by double-clicking.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jeffstoncourt/bookingserver/internal/metrics"
	"github.com/jeffstoncourt/bookingserver/internal/models"
	"github.com/jeffstoncourt/bookingserver/internal/notify"
	"github.com/jeffstoncourt/bookingserver/internal/payments"
	"github.com/jeffstoncourt/bookingserver/internal/pricing"
)

type State string

const (
	StateIdle            State = "Idle"
	StateFormValid       State = "FormValid"
	StateBookingCreated  State = "BookingCreated"
	StatePaymentInFlight State = "PaymentInFlight"
	StatePaymentVerified State = "PaymentVerified"
	StateError           State = "Error"
)

// FieldErrors carries field-level validation feedback for the form.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for field, msg := range f {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

// Result is what a successful submission hands back for the payment step.
type Result struct {
	Reference string        `json:"reference"`
	Quote     pricing.Quote `json:"quote"`
	Amount    int64         `json:"amount"` // subunits for the provider
	Currency  string        `json:"currency"`
	Email     string        `json:"email"`
}

type Orchestrator struct {
	store    models.BookingStore
	gateway  payments.Gateway
	notifier notify.Notifier
	logger   *slog.Logger
	taxRate  float64
	currency string

	// onFormReset mirrors clearing the booking form after a confirmed stay.
	onFormReset func()

	mu            sync.Mutex
	state         State
	submitEnabled bool
	inFlight      bool
	lastError     string
}

func NewOrchestrator(store models.BookingStore, gateway payments.Gateway, notifier notify.Notifier, logger *slog.Logger, taxRate float64, currency string) *Orchestrator {
	return &Orchestrator{
		store:         store,
		gateway:       gateway,
		notifier:      notifier,
		logger:        logger,
		taxRate:       taxRate,
		currency:      currency,
		state:         StateIdle,
		submitEnabled: true,
	}
}

// OnFormReset registers the hook run after a verified payment.
func (o *Orchestrator) OnFormReset(fn func()) {
	o.onFormReset = fn
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) SubmitEnabled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.submitEnabled
}

func (o *Orchestrator) LastError() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastError
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// fail surfaces the message and restores the form to its pre-submission
// interactive shape. The machine parks back in Idle so the guest can retry
// immediately.
func (o *Orchestrator) fail(message string) {
	o.endIn(StateIdle, message)
}

// failSupport is for failures after money may have moved: the machine parks
// in Error and the message carries the reference for manual follow-up. The
// submit control still comes back, nothing may leave it disabled.
func (o *Orchestrator) failSupport(message string) {
	o.endIn(StateError, message)
}

func (o *Orchestrator) endIn(s State, message string) {
	o.mu.Lock()
	o.state = s
	o.lastError = message
	o.submitEnabled = true
	o.inFlight = false
	o.mu.Unlock()

	o.notifier.Notify(notify.Error, message)
}

// recoverTransition converts a panic inside a callback-driven transition
// into a surfaced notification; no path may leave the submit control
// disabled. Submit has its own recovery because it must also produce an
// error return.
func (o *Orchestrator) recoverTransition() {
	if r := recover(); r != nil {
		if o.logger != nil {
			o.logger.Error("recovered from panic during booking transition", "panic", r)
		}
		o.fail(fmt.Sprintf("Something went wrong, please try again: %v", r))
	}
}

// NewReference builds a submission-unique booking reference: time-based
// prefix plus a random suffix, reused later as the payment reference.
func NewReference() string {
	suffix := strings.Split(uuid.New().String(), "-")[0]
	return fmt.Sprintf("JC-%d-%s", time.Now().UnixMilli(), suffix)
}

// Submit runs Idle → FormValid → BookingCreated → PaymentInFlight. It
// returns once the payment flow is open; the payment callbacks drive the
// rest. A second call while a submission is in flight is rejected.
func (o *Orchestrator) Submit(ctx context.Context, req models.BookingRequest, listing models.Listing) (result *Result, err error) {
	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		return nil, models.ErrSubmissionInFlight
	}
	o.inFlight = true
	o.submitEnabled = false
	o.mu.Unlock()

	// a recovered panic must still hand the caller an error
	defer func() {
		if r := recover(); r != nil {
			if o.logger != nil {
				o.logger.Error("recovered from panic during booking submission", "panic", r)
			}
			message := fmt.Sprintf("Something went wrong, please try again: %v", r)
			o.fail(message)
			result = nil
			err = fmt.Errorf("%w: %s", models.ErrBookingFailed, message)
		}
	}()

	quote, checkErr := o.validate(req, listing)
	if checkErr != nil {
		// invalid input halts at Idle with field-level feedback
		o.mu.Lock()
		o.state = StateIdle
		o.submitEnabled = true
		o.inFlight = false
		o.mu.Unlock()
		return nil, checkErr
	}
	o.setState(StateFormValid)

	record := &models.BookingRecord{
		Reference:      NewReference(),
		ApartmentTitle: listing.Title,
		CheckIn:        req.CheckIn,
		CheckOut:       req.CheckOut,
		Guests:         req.Guests,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Amount:         quote.Total,
		Status:         models.BookingPending,
		CreatedAt:      time.Now(),
	}

	created, err := o.store.CreateBooking(ctx, record)
	if err != nil {
		metrics.IncBookingCreated("error")
		o.fail(err.Error())
		return nil, fmt.Errorf("%w: %v", models.ErrBookingFailed, err)
	}
	if !created.Success {
		// surface the server's message verbatim
		message := created.Message
		if message == "" {
			message = "Failed to create booking"
		}
		metrics.IncBookingCreated("rejected")
		o.fail(message)
		return nil, fmt.Errorf("%w: %s", models.ErrBookingFailed, message)
	}
	if created.BookingID != "" {
		record.Reference = created.BookingID
	}
	metrics.IncBookingCreated("created")
	o.setState(StateBookingCreated)
	o.notifier.Notify(notify.Success, "Booking created successfully! Proceeding to payment...")

	charge := payments.Charge{
		Email:     req.Email,
		Amount:    quote.Subunits(),
		Currency:  o.currency,
		Reference: record.Reference,
	}
	callbacks := payments.Callbacks{
		OnSuccess: func(providerRef string) { o.handlePaymentSuccess(record.Reference, providerRef) },
		OnCancel:  func() { o.handleCancel() },
	}

	if err := o.gateway.Open(ctx, charge, callbacks); err != nil {
		o.fail(fmt.Sprintf("Could not open payment: %v", err))
		return nil, err
	}
	o.setState(StatePaymentInFlight)

	return &Result{
		Reference: record.Reference,
		Quote:     *quote,
		Amount:    charge.Amount,
		Currency:  charge.Currency,
		Email:     charge.Email,
	}, nil
}

// validate applies the struct tags plus the date-order rule and prices the
// stay. Returned FieldErrors map form field names to messages.
func (o *Orchestrator) validate(req models.BookingRequest, listing models.Listing) (*pricing.Quote, error) {
	fields := FieldErrors{}

	if err := models.Validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, err
		}
		for _, fe := range verrs {
			fields[strings.ToLower(fe.Field())] = validationMessage(fe)
		}
	}
	if len(fields) > 0 {
		return nil, fields
	}

	checkIn, err := req.CheckInDate()
	if err != nil {
		return nil, FieldErrors{"checkin": "invalid date"}
	}
	checkOut, err := req.CheckOutDate()
	if err != nil {
		return nil, FieldErrors{"checkout": "invalid date"}
	}

	quote, err := pricing.Calculate(listing.PriceGHS, checkIn, checkOut, o.taxRate)
	if err != nil {
		return nil, FieldErrors{"checkout": "Check-out date must be after check-in date."}
	}
	return quote, nil
}

func (o *Orchestrator) handlePaymentSuccess(reference, providerRef string) {
	defer o.recoverTransition()

	result, err := o.store.VerifyPayment(context.Background(), reference)
	if err != nil || !result.Success {
		metrics.IncPaymentVerified("failed")
		detail := ""
		if err != nil {
			detail = err.Error()
		} else {
			detail = result.Message
		}
		if o.logger != nil {
			o.logger.Error("payment verification failed", "reference", reference, "provider_ref", providerRef, "error", detail)
		}
		o.failSupport(fmt.Sprintf("Payment verification failed. Please contact support with reference: %s", reference))
		return
	}

	metrics.IncPaymentVerified("verified")
	o.setState(StatePaymentVerified)
	if o.onFormReset != nil {
		o.onFormReset()
	}
	o.notifier.Notify(notify.Success, fmt.Sprintf("Booking Confirmed! Reference: %s. You will receive a confirmation email shortly.", reference))

	o.mu.Lock()
	o.state = StateIdle
	o.submitEnabled = true
	o.inFlight = false
	o.mu.Unlock()
}

// handleCancel runs when the guest closes the payment window. Not an error:
// the submission unwinds to Idle and can be retried with the same reference.
func (o *Orchestrator) handleCancel() {
	defer o.recoverTransition()

	o.notifier.Notify(notify.Warn, "Payment window closed. You can try again.")

	o.mu.Lock()
	o.state = StateIdle
	o.submitEnabled = true
	o.inFlight = false
	o.mu.Unlock()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	default:
		return "invalid value"
	}
}
