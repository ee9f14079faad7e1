package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jeffstoncourt/bookingserver/internal/booking"
	"github.com/jeffstoncourt/bookingserver/internal/models"
	"github.com/jeffstoncourt/bookingserver/internal/notify"
	"github.com/jeffstoncourt/bookingserver/internal/payments"
)

type fakeSource struct {
	listings []models.Listing
	err      error
	calls    int
}

func (f *fakeSource) FetchListings(ctx context.Context) ([]models.Listing, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.listings, nil
}

func (f *fakeSource) FetchApartments(ctx context.Context) ([]models.ApartmentOption, error) {
	return []models.ApartmentOption{{ID: "APT001", Type: "2-Bedroom", Price: 4200}}, nil
}

func catalogue() []models.Listing {
	return []models.Listing{
		{ID: "APT001", Title: "2-Bedroom Luxury Apartment", PriceGHS: 4200, Available: true, Bedrooms: 2},
		{ID: "APT002", Title: "3-Bedroom Penthouse", PriceGHS: 6840, Available: true, Bedrooms: 3},
		{ID: "APT003", Title: "Studio", PriceGHS: 2100, Available: false, Bedrooms: 1},
	}
}

func TestBrowseCachesBetweenCalls(t *testing.T) {
	src := &fakeSource{listings: catalogue()}
	ls := NewListingsService(src, 6, time.Minute)

	_, _, _, err := ls.Browse(context.Background(), models.FilterCriteria{}, 1)
	require.NoError(t, err)
	_, _, _, err = ls.Browse(context.Background(), models.FilterCriteria{}, 1)
	require.NoError(t, err)

	require.Equal(t, 1, src.calls, "second browse must come from cache")
}

func TestBrowseFiltersAndPages(t *testing.T) {
	src := &fakeSource{listings: catalogue()}
	ls := NewListingsService(src, 1, time.Minute)

	items, total, pages, err := ls.Browse(context.Background(), models.FilterCriteria{MinBedrooms: 2}, 2)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Equal(t, 2, pages)
	require.Len(t, items, 1)
	require.Equal(t, "APT002", items[0].ID)
}

func TestBrowseServesStaleCacheOnFetchError(t *testing.T) {
	src := &fakeSource{listings: catalogue()}
	ls := NewListingsService(src, 6, time.Nanosecond)

	_, _, _, err := ls.Browse(context.Background(), models.FilterCriteria{}, 1)
	require.NoError(t, err)

	src.err = errors.New("endpoint down")
	time.Sleep(time.Millisecond)

	items, _, _, err := ls.Browse(context.Background(), models.FilterCriteria{}, 1)
	require.NoError(t, err, "stale catalogue beats an error page")
	require.Len(t, items, 2)
}

func TestGetResolvesByID(t *testing.T) {
	ls := NewListingsService(&fakeSource{listings: catalogue()}, 6, time.Minute)

	l, err := ls.Get(context.Background(), "APT002")
	require.NoError(t, err)
	require.Equal(t, "3-Bedroom Penthouse", l.Title)

	_, err = ls.Get(context.Background(), "APT999")
	require.Error(t, err)
}

type stubStore struct{}

func (stubStore) CreateBooking(ctx context.Context, record *models.BookingRecord) (*models.SubmitResult, error) {
	return &models.SubmitResult{Success: true, BookingID: record.Reference}, nil
}

func (stubStore) VerifyPayment(ctx context.Context, reference string) (*models.SubmitResult, error) {
	return &models.SubmitResult{Success: true}, nil
}

type stubResolver struct {
	resolved  []string
	cancelled []string
}

func (s *stubResolver) Resolve(ctx context.Context, reference string) error {
	s.resolved = append(s.resolved, reference)
	return nil
}

func (s *stubResolver) Cancel(reference string) error {
	s.cancelled = append(s.cancelled, reference)
	return nil
}

func (s *stubResolver) AuthorizationURL(reference string) string {
	return "https://checkout.example.com/" + reference
}

type noopGateway struct{}

func (noopGateway) Open(ctx context.Context, charge payments.Charge, cb payments.Callbacks) error {
	return nil
}

func newBookingService(src *fakeSource, resolver *stubResolver) *BookingService {
	ls := NewListingsService(src, 6, time.Minute)
	o := booking.NewOrchestrator(stubStore{}, noopGateway{}, notify.NewCollector(nil), nil, 0.12, "GHS")
	return NewBookingService(o, resolver, ls, nil, "pk_test_abc")
}

func TestSubmitUnknownApartmentIsFieldError(t *testing.T) {
	bs := newBookingService(&fakeSource{listings: catalogue()}, &stubResolver{})

	req := models.BookingRequest{
		ApartmentID: "APT999",
		CheckIn:     "2025-09-01",
		CheckOut:    "2025-09-04",
		Guests:      2,
		Name:        "Ama",
		Email:       "ama@example.com",
		Phone:       "+233201234567",
	}
	_, err := bs.Submit(context.Background(), req)

	var fields booking.FieldErrors
	require.ErrorAs(t, err, &fields)
	require.Contains(t, fields, "apartment_id")
}

func TestSubmitUnavailableApartmentRejected(t *testing.T) {
	bs := newBookingService(&fakeSource{listings: catalogue()}, &stubResolver{})

	req := models.BookingRequest{
		ApartmentID: "APT003",
		CheckIn:     "2025-09-01",
		CheckOut:    "2025-09-04",
		Guests:      2,
		Name:        "Ama",
		Email:       "ama@example.com",
		Phone:       "+233201234567",
	}
	_, err := bs.Submit(context.Background(), req)

	var fields booking.FieldErrors
	require.ErrorAs(t, err, &fields)
	require.Contains(t, fields, "apartment_id")
}

func TestSubmitReturnsAuthorizationURL(t *testing.T) {
	resolver := &stubResolver{}
	bs := newBookingService(&fakeSource{listings: catalogue()}, resolver)

	req := models.BookingRequest{
		ApartmentID: "APT001",
		CheckIn:     "2025-09-01",
		CheckOut:    "2025-09-04",
		Guests:      2,
		Name:        "Ama",
		Email:       "ama@example.com",
		Phone:       "+233201234567",
	}
	out, err := bs.Submit(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "https://checkout.example.com/"+out.Reference, out.AuthorizationURL)
	require.Equal(t, "pk_test_abc", out.PublicKey)
	require.Equal(t, int64(47040), out.Amount)
}

func TestVerifyAndCancelRequireReference(t *testing.T) {
	resolver := &stubResolver{}
	bs := newBookingService(&fakeSource{listings: catalogue()}, resolver)

	require.Error(t, bs.VerifyPayment(context.Background(), ""))
	require.Error(t, bs.CancelPayment(""))

	require.NoError(t, bs.VerifyPayment(context.Background(), "JC-1-abc"))
	require.NoError(t, bs.CancelPayment("JC-1-abc"))
	require.Equal(t, []string{"JC-1-abc"}, resolver.resolved)
	require.Equal(t, []string{"JC-1-abc"}, resolver.cancelled)
}

func TestBookingsWithoutListerErrors(t *testing.T) {
	bs := newBookingService(&fakeSource{listings: catalogue()}, &stubResolver{})
	_, err := bs.Bookings(context.Background())
	require.Error(t, err)
}
