// Package pricing computes stay quotes. Listing prices are per 30-day period;
// a nightly rate is derived from that and multiplied out over the stay.
package pricing

import (
	"math"
	"time"

	"github.com/jeffstoncourt/bookingserver/internal/models"
)

// Quote is the price breakdown for one stay. All amounts keep full float64
// precision; rounding happens only when converting for the payment provider.
type Quote struct {
	Nights   int     `json:"nights"`
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Calculate derives the quote for a stay. monthlyPrice is the listing's
// 30-day price in currency units. Returns ErrInvalidDateRange when checkOut
// is not strictly after checkIn.
func Calculate(monthlyPrice float64, checkIn, checkOut time.Time, taxRate float64) (*Quote, error) {
	if !checkOut.After(checkIn) {
		return nil, models.ErrInvalidDateRange
	}

	nights := int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
	if nights < 1 {
		nights = 1
	}

	subtotal := monthlyPrice / 30 * float64(nights)
	tax := subtotal * taxRate

	return &Quote{
		Nights:   nights,
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}, nil
}

// Subunits converts the total to an integer number of currency subunits
// (pesewas for GHS). The payment provider only accepts integer amounts, so
// this is the single place precision is given up.
func (q *Quote) Subunits() int64 {
	return int64(math.Round(q.Total * 100))
}
