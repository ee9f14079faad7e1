package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/jeffstoncourt/bookingserver/internal/models"
)

const defaultBaseURL = "https://api.paystack.co"

// Paystack drives the hosted checkout over Paystack's REST API: a charge is
// initialized to obtain an authorization URL the guest completes in the
// browser, and the redirect/webhook handlers resolve it by firing the
// registered callbacks.
type Paystack struct {
	secretKey string
	baseURL   string
	http      *http.Client

	mu       sync.Mutex
	pending  map[string]Callbacks // keyed by our booking reference
	authURLs map[string]string
}

func NewPaystack(secretKey string, opts ...PaystackOption) *Paystack {
	p := &Paystack{
		secretKey: secretKey,
		baseURL:   defaultBaseURL,
		http:      &http.Client{Timeout: 30 * time.Second},
		pending:   make(map[string]Callbacks),
		authURLs:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type PaystackOption func(*Paystack)

func WithBaseURL(u string) PaystackOption {
	return func(p *Paystack) { p.baseURL = u }
}

func WithHTTPClient(c *http.Client) PaystackOption {
	return func(p *Paystack) { p.http = c }
}

type initializeRequest struct {
	Email     string `json:"email"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Reference string `json:"reference"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status    string `json:"status"`
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
	} `json:"data"`
}

// Open initializes the transaction and remembers the callbacks under the
// charge reference until Resolve or Cancel is called for it.
func (p *Paystack) Open(ctx context.Context, charge Charge, cb Callbacks) error {
	body, err := json.Marshal(initializeRequest{
		Email:     charge.Email,
		Amount:    charge.Amount,
		Currency:  charge.Currency,
		Reference: charge.Reference,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("initialize transaction: %w: %v", models.ErrTransport, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("initialize transaction: %w: %v", models.ErrTransport, err)
	}

	var parsed initializeResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("initialize transaction: %w: %v", models.ErrDataFormat, err)
	}
	if !parsed.Status {
		return fmt.Errorf("initialize transaction: %w: %s", models.ErrPaymentFailed, parsed.Message)
	}

	p.mu.Lock()
	p.pending[charge.Reference] = cb
	p.authURLs[charge.Reference] = parsed.Data.AuthorizationURL
	p.mu.Unlock()
	return nil
}

// AuthorizationURL reports the checkout URL obtained when the charge was
// opened; handlers hand it to the frontend for redirection.
func (p *Paystack) AuthorizationURL(reference string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.authURLs[reference]
}

func (p *Paystack) take(reference string) (Callbacks, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cb, ok := p.pending[reference]
	if ok {
		delete(p.pending, reference)
		delete(p.authURLs, reference)
	}
	return cb, ok
}

// Resolve is called when the provider reports the charge paid (redirect or
// webhook). It verifies the transaction server-side before firing OnSuccess;
// a charge Paystack does not recognize as successful fires nothing and
// returns an error instead.
func (p *Paystack) Resolve(ctx context.Context, reference string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)

	res, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("verify transaction: %w: %v", models.ErrTransport, err)
	}
	defer res.Body.Close()

	var parsed verifyResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("verify transaction: %w: %v", models.ErrDataFormat, err)
	}
	if !parsed.Status || parsed.Data.Status != "success" {
		return fmt.Errorf("verify transaction %s: %w: %s", reference, models.ErrPaymentFailed, parsed.Message)
	}

	cb, ok := p.take(reference)
	if !ok {
		return fmt.Errorf("no pending charge for reference %s", reference)
	}
	if cb.OnSuccess != nil {
		cb.OnSuccess(parsed.Data.Reference)
	}
	return nil
}

// Cancel is called when the guest closes the checkout window.
func (p *Paystack) Cancel(reference string) error {
	cb, ok := p.take(reference)
	if !ok {
		return fmt.Errorf("no pending charge for reference %s", reference)
	}
	if cb.OnCancel != nil {
		cb.OnCancel()
	}
	return nil
}
