package sheetapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jeffstoncourt/bookingserver/internal/models"
	"github.com/jeffstoncourt/bookingserver/internal/notify"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []notify.Notification
}

func (r *recordingNotifier) Notify(level notify.Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, notify.Notification{Level: level, Message: message})
}

func (r *recordingNotifier) Drain() []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.messages
	r.messages = nil
	return out
}

const htmlPage = `<!DOCTYPE html><html><body>Google Apps Script landing page</body></html>`

func TestFetchListingsParsesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "listings", r.URL.Query().Get("action"))
		json.NewEncoder(w).Encode([]map[string]any{
			{"ID": "APT010", "Title": "Penthouse", "Price_GHS": 9000, "Available": "yes", "Bedrooms": 4},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	got, err := c.FetchListings(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "APT010", got[0].ID)
	require.Equal(t, 4, got[0].Bedrooms)
}

func TestFetchListingsHTMLFallsBackWithOneNotice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(htmlPage))
	}))
	defer srv.Close()

	n := &recordingNotifier{}
	c := NewClient(srv.URL, WithNotifier(n))

	for i := 0; i < 3; i++ {
		got, err := c.FetchListings(context.Background())
		require.NoError(t, err)
		require.NotEmpty(t, got, "fallback dataset must hold at least one listing")
	}

	msgs := n.Drain()
	require.Len(t, msgs, 1, "fallback notice must fire exactly once per resource")
	require.Contains(t, msgs[0].Message, "demo data")
}

func TestFetchNoticeIsPerResource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(htmlPage))
	}))
	defer srv.Close()

	n := &recordingNotifier{}
	c := NewClient(srv.URL, WithNotifier(n))

	_, err := c.FetchListings(context.Background())
	require.NoError(t, err)
	_, err = c.FetchApartments(context.Background())
	require.NoError(t, err)

	require.Len(t, n.Drain(), 2)
}

func TestFetchUnknownResourceHasNoFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(htmlPage))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.FetchCollection(context.Background(), "bookings")
	require.ErrorIs(t, err, models.ErrDataFormat)
}

func TestFetchTimeoutIsDistinct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithTimeout(20*time.Millisecond))
	_, err := c.FetchCollection(context.Background(), "listings")
	require.ErrorIs(t, err, models.ErrTimeout)
	require.NotErrorIs(t, err, models.ErrTransport)
}

func TestSubmitRetriesWithFormEncoding(t *testing.T) {
	var jsonSeen, formSeen bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.Header.Get("Content-Type"), "application/json"):
			jsonSeen = true
			w.Write([]byte(htmlPage)) // this deployment only takes form posts
		default:
			formSeen = true
			require.NoError(t, r.ParseForm())
			require.Equal(t, "createBooking", r.PostFormValue("action"))
			json.NewEncoder(w).Encode(models.SubmitResult{Success: true, BookingID: "BK-1"})
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.Submit(context.Background(), "createBooking", map[string]string{"name": "Ama"})
	require.NoError(t, err)
	require.True(t, jsonSeen)
	require.True(t, formSeen)
	require.True(t, res.Success)
	require.Equal(t, "BK-1", res.BookingID)
}

func TestSubmitSurfacesTransportFailureByDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(htmlPage))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Submit(context.Background(), "createBooking", map[string]string{"name": "Ama"})
	require.ErrorIs(t, err, models.ErrTransport)
}

func TestSubmitSoftSuccessPolicy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(htmlPage))
	}))
	defer srv.Close()

	n := &recordingNotifier{}
	c := NewClient(srv.URL, WithSoftSuccess(), WithNotifier(n))
	res, err := c.Submit(context.Background(), "createBooking", map[string]string{"name": "Ama"})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.NotEmpty(t, n.Drain())
}

type memOutbox struct {
	mu    sync.Mutex
	saved []*models.BookingRecord
}

func (m *memOutbox) SavePending(ctx context.Context, record *models.BookingRecord, cause string) (*models.PendingBooking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, record)
	return &models.PendingBooking{Reference: record.Reference, Record: *record, LastError: cause}, nil
}

func (m *memOutbox) ListPending(ctx context.Context) ([]*models.PendingBooking, error) {
	return nil, nil
}

func (m *memOutbox) RemovePending(ctx context.Context, reference string) error { return nil }

func TestCreateBookingParksFailureInOutbox(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(htmlPage))
	}))
	defer srv.Close()

	box := &memOutbox{}
	c := NewClient(srv.URL, WithOutbox(box))
	record := &models.BookingRecord{Reference: "JC-42", Name: "Ama", Amount: 470.40}

	_, err := c.CreateBooking(context.Background(), record)
	require.ErrorIs(t, err, models.ErrTransport)
	require.Len(t, box.saved, 1)
	require.Equal(t, "JC-42", box.saved[0].Reference)
}

func TestLoadingHookTogglesOnEveryPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(htmlPage))
	}))
	defer srv.Close()

	var states []bool
	c := NewClient(srv.URL, WithLoadingHook(func(on bool) { states = append(states, on) }))

	_, _ = c.FetchCollection(context.Background(), "listings")
	_, _ = c.Submit(context.Background(), "createBooking", nil)

	require.NotEmpty(t, states)
	require.Equal(t, 0, count(states, true)-count(states, false), "loading must return to false on every exit path")
	require.False(t, states[len(states)-1])
}

func count(states []bool, want bool) int {
	n := 0
	for _, s := range states {
		if s == want {
			n++
		}
	}
	return n
}
