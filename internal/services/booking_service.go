package services

import (
	"context"
	"fmt"

	"github.com/jeffstoncourt/bookingserver/internal/booking"
	"github.com/jeffstoncourt/bookingserver/internal/models"
)

// PaymentResolver is the provider-side half of the payment flow: the
// frontend reports the outcome and we settle it against the provider.
type PaymentResolver interface {
	Resolve(ctx context.Context, reference string) error
	Cancel(reference string) error
	AuthorizationURL(reference string) string
}

// BookingLister is implemented by backends that can enumerate stored
// bookings; the export surface needs it.
type BookingLister interface {
	FetchBookings(ctx context.Context) ([]models.BookingRecord, error)
}

// SubmitOutcome is what the booking endpoint returns: the orchestrator's
// result plus where to send the guest to pay.
type SubmitOutcome struct {
	booking.Result
	AuthorizationURL string `json:"authorization_url,omitempty"`
	PublicKey        string `json:"public_key,omitempty"`
}

type BookingService struct {
	orchestrator *booking.Orchestrator
	resolver     PaymentResolver
	listings     *ListingsService
	lister       BookingLister
	publicKey    string
}

func NewBookingService(orchestrator *booking.Orchestrator, resolver PaymentResolver, listings *ListingsService, lister BookingLister, publicKey string) *BookingService {
	return &BookingService{
		orchestrator: orchestrator,
		resolver:     resolver,
		listings:     listings,
		lister:       lister,
		publicKey:    publicKey,
	}
}

// Submit resolves the chosen listing, runs the booking through the state
// machine and hands back the payment authorization URL.
func (bs *BookingService) Submit(ctx context.Context, req models.BookingRequest) (*SubmitOutcome, error) {
	listing, err := bs.listings.Get(ctx, req.ApartmentID)
	if err != nil {
		return nil, booking.FieldErrors{"apartment_id": "unknown apartment"}
	}
	if !listing.Available {
		return nil, booking.FieldErrors{"apartment_id": "apartment is not available"}
	}

	result, err := bs.orchestrator.Submit(ctx, req, *listing)
	if err != nil {
		return nil, err
	}

	outcome := &SubmitOutcome{Result: *result, PublicKey: bs.publicKey}
	if bs.resolver != nil {
		outcome.AuthorizationURL = bs.resolver.AuthorizationURL(result.Reference)
	}
	return outcome, nil
}

// VerifyPayment settles a reported payment against the provider. The
// provider callback drives the orchestrator's verification step.
func (bs *BookingService) VerifyPayment(ctx context.Context, reference string) error {
	if reference == "" {
		return fmt.Errorf("payment reference is required")
	}
	return bs.resolver.Resolve(ctx, reference)
}

// CancelPayment unwinds a closed payment window.
func (bs *BookingService) CancelPayment(reference string) error {
	if reference == "" {
		return fmt.Errorf("payment reference is required")
	}
	return bs.resolver.Cancel(reference)
}

func (bs *BookingService) State() booking.State {
	return bs.orchestrator.State()
}

func (bs *BookingService) SubmitEnabled() bool {
	return bs.orchestrator.SubmitEnabled()
}

// LastError reports the message of the most recent failed transition, empty
// while none has failed.
func (bs *BookingService) LastError() string {
	return bs.orchestrator.LastError()
}

// Bookings lists the stored bookings for export. Not every backend can
// enumerate; callers get an explicit error rather than an empty file.
func (bs *BookingService) Bookings(ctx context.Context) ([]models.BookingRecord, error) {
	if bs.lister == nil {
		return nil, fmt.Errorf("the configured storage backend does not support listing bookings")
	}
	return bs.lister.FetchBookings(ctx)
}
