// Package sheetapi talks to the spreadsheet-backed script endpoint. The
// endpoint has quirks this client absorbs: it answers API calls with an HTML
// page when misdeployed, and its write path accepts either a JSON body or a
// form-encoded one depending on the deployment revision.
package sheetapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/jeffstoncourt/bookingserver/internal/metrics"
	"github.com/jeffstoncourt/bookingserver/internal/models"
	"github.com/jeffstoncourt/bookingserver/internal/notify"
)

const defaultTimeout = 30 * time.Second

// Client is the single point of contact with the remote data service.
type Client struct {
	baseURL  string
	http     *http.Client
	notifier notify.Notifier

	// onLoading mirrors the UI spinner: toggled on entry and on every exit
	// path of a call that hits the network.
	onLoading func(bool)

	// softSuccess keeps the legacy behavior of reporting success when all
	// submit attempts fail. Off by default; the outbox is the replacement.
	softSuccess bool
	outbox      models.OutboxRepo

	mu               sync.Mutex
	fallbackNotified map[string]bool
}

type Option func(*Client)

func WithNotifier(n notify.Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

func WithLoadingHook(fn func(bool)) Option {
	return func(c *Client) { c.onLoading = fn }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithSoftSuccess restores the legacy policy of answering submit failures
// with a fabricated success so the guest's intent is at least recorded.
func WithSoftSuccess() Option {
	return func(c *Client) { c.softSuccess = true }
}

// WithOutbox parks failed submissions for explicit later retry.
func WithOutbox(repo models.OutboxRepo) Option {
	return func(c *Client) { c.outbox = repo }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:          baseURL,
		http:             &http.Client{Timeout: defaultTimeout},
		fallbackNotified: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) setLoading(on bool) {
	if c.onLoading != nil {
		c.onLoading(on)
	}
}

func (c *Client) notify(level notify.Level, msg string) {
	if c.notifier != nil {
		c.notifier.Notify(level, msg)
	}
}

// notifyFallbackOnce raises the "demo data" notice at most once per resource
// for the lifetime of this client, however often the fetch fails.
func (c *Client) notifyFallbackOnce(resource string) {
	c.mu.Lock()
	already := c.fallbackNotified[resource]
	c.fallbackNotified[resource] = true
	c.mu.Unlock()
	if !already {
		c.notify(notify.Info, fmt.Sprintf("Using demo data for %s. Live spreadsheet data is unavailable.", resource))
	}
	metrics.IncFallbackServed(resource)
}

// FetchCollection issues a read for a named resource and returns the raw
// rows. A non-JSON response (typically the script's HTML landing page) or a
// transport failure degrades to the predefined fallback dataset where one
// exists; resources without a safe fallback surface ErrDataFormat.
func (c *Client) FetchCollection(ctx context.Context, resource string) ([]map[string]any, error) {
	c.setLoading(true)
	defer c.setLoading(false)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.actionURL(resource), nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", resource, err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("fetching %s: %w", resource, models.ErrTimeout)
		}
		return c.fallbackOr(resource, fmt.Errorf("fetching %s: %w: %v", resource, models.ErrTransport, err))
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return c.fallbackOr(resource, fmt.Errorf("reading %s response: %w: %v", resource, models.ErrTransport, err))
	}

	if looksLikeHTML(body) {
		return c.fallbackOr(resource, fmt.Errorf("%s: %w: got HTML instead of JSON", resource, models.ErrDataFormat))
	}

	var rows []map[string]any
	if err := json.Unmarshal(body, &rows); err != nil {
		return c.fallbackOr(resource, fmt.Errorf("%s: %w: %v", resource, models.ErrDataFormat, err))
	}
	return rows, nil
}

func (c *Client) fallbackOr(resource string, cause error) ([]map[string]any, error) {
	if rows, ok := fallbackFor(resource); ok {
		c.notifyFallbackOnce(resource)
		return rows, nil
	}
	return nil, cause
}

// FetchListings returns the normalized listing collection.
func (c *Client) FetchListings(ctx context.Context) ([]models.Listing, error) {
	rows, err := c.FetchCollection(ctx, "listings")
	if err != nil {
		return nil, err
	}
	out := make([]models.Listing, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.NormalizeListing(row))
	}
	return out, nil
}

// FetchApartments returns the dropdown summaries.
func (c *Client) FetchApartments(ctx context.Context) ([]models.ApartmentOption, error) {
	rows, err := c.FetchCollection(ctx, "getApartments")
	if err != nil {
		return nil, err
	}
	out := make([]models.ApartmentOption, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.NormalizeApartment(row))
	}
	return out, nil
}

// Submit issues a write action. The JSON encoding is tried first, then one
// retry with a form-encoded body, because deployed script revisions disagree
// about which they accept. What happens after both fail depends on policy:
// soft-success fabricates a positive answer (legacy), otherwise the payload
// goes to the outbox and the transport error is surfaced.
func (c *Client) Submit(ctx context.Context, action string, payload map[string]string) (*models.SubmitResult, error) {
	c.setLoading(true)
	defer c.setLoading(false)

	result, jsonErr := c.submitJSON(ctx, action, payload)
	if jsonErr == nil {
		return result, nil
	}
	if errors.Is(jsonErr, models.ErrTimeout) {
		return nil, jsonErr
	}

	result, formErr := c.submitForm(ctx, action, payload)
	if formErr == nil {
		return result, nil
	}
	if errors.Is(formErr, models.ErrTimeout) {
		return nil, formErr
	}

	if c.softSuccess {
		c.notify(notify.Warn, "The booking service is unreachable. Your request was recorded and will be processed manually.")
		return &models.SubmitResult{Success: true, Message: "recorded for manual processing"}, nil
	}
	return nil, fmt.Errorf("submit %s: %w: json attempt: %v; form attempt: %v", action, models.ErrTransport, jsonErr, formErr)
}

func (c *Client) submitJSON(ctx context.Context, action string, payload map[string]string) (*models.SubmitResult, error) {
	body := make(map[string]string, len(payload)+1)
	body["action"] = action
	for k, v := range payload {
		body[k] = v
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.actionURL(action), bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doSubmit(req, action)
}

func (c *Client) submitForm(ctx context.Context, action string, payload map[string]string) (*models.SubmitResult, error) {
	form := url.Values{}
	form.Set("action", action)
	for k, v := range payload {
		form.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.doSubmit(req, action)
}

func (c *Client) doSubmit(req *http.Request, action string) (*models.SubmitResult, error) {
	res, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("submit %s: %w", action, models.ErrTimeout)
		}
		return nil, fmt.Errorf("submit %s: %w: %v", action, models.ErrTransport, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("submit %s: %w: %v", action, models.ErrTransport, err)
	}
	if looksLikeHTML(body) {
		return nil, fmt.Errorf("submit %s: %w: got HTML instead of JSON", action, models.ErrDataFormat)
	}

	var result models.SubmitResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("submit %s: %w: %v", action, models.ErrDataFormat, err)
	}
	return &result, nil
}

// CreateBooking and VerifyPayment make the client satisfy models.BookingStore.

func (c *Client) CreateBooking(ctx context.Context, record *models.BookingRecord) (*models.SubmitResult, error) {
	result, err := c.Submit(ctx, "createBooking", map[string]string{
		"reference":     record.Reference,
		"apartmentType": record.ApartmentTitle,
		"checkIn":       record.CheckIn,
		"checkOut":      record.CheckOut,
		"guests":        fmt.Sprintf("%d", record.Guests),
		"name":          record.Name,
		"email":         record.Email,
		"phone":         record.Phone,
		"amount":        fmt.Sprintf("%.2f", record.Amount),
	})
	if err != nil && c.outbox != nil && errors.Is(err, models.ErrTransport) {
		if _, saveErr := c.outbox.SavePending(ctx, record, err.Error()); saveErr == nil {
			c.notify(notify.Warn, "The booking service is unreachable. Your request was saved and will be retried.")
		}
	}
	return result, err
}

func (c *Client) VerifyPayment(ctx context.Context, reference string) (*models.SubmitResult, error) {
	return c.Submit(ctx, "verifyPayment", map[string]string{"reference": reference})
}

func (c *Client) actionURL(action string) string {
	return fmt.Sprintf("%s?action=%s", c.baseURL, url.QueryEscape(action))
}

func looksLikeHTML(body []byte) bool {
	trimmed := strings.TrimSpace(string(body))
	return strings.HasPrefix(trimmed, "<!DOCTYPE html>") || strings.HasPrefix(trimmed, "<html") || strings.HasPrefix(trimmed, "<HTML")
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
