// Package payments integrates the hosted checkout. The orchestrator only
// ever sees two outcomes from a charge: success with a provider reference,
// or the guest closing the window.
package payments

import "context"

// Charge describes one payment to collect. Amount is in integer currency
// subunits (pesewas for GHS); the provider rejects fractional amounts.
type Charge struct {
	Email     string
	Amount    int64
	Currency  string
	Reference string
}

// Callbacks are the two externally observable outcomes of a checkout flow.
// The flow itself is user-paced and has no gateway-imposed timeout.
type Callbacks struct {
	OnSuccess func(providerReference string)
	OnCancel  func()
}

// Gateway opens the external payment flow for a charge. Open returns once
// the flow is launched; the callbacks fire later, when the guest finishes
// or walks away.
type Gateway interface {
	Open(ctx context.Context, charge Charge, cb Callbacks) error
}
