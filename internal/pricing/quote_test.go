package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jeffstoncourt/bookingserver/internal/models"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCalculateThreeNightStay(t *testing.T) {
	q, err := Calculate(4200, date("2025-09-01"), date("2025-09-04"), 0.12)
	require.NoError(t, err)

	require.Equal(t, 3, q.Nights)
	require.InDelta(t, 420.00, q.Subtotal, 1e-9)
	require.InDelta(t, 50.40, q.Tax, 1e-9)
	require.InDelta(t, 470.40, q.Total, 1e-9)
}

func TestCalculateTotalIsExactSum(t *testing.T) {
	for _, nights := range []int{1, 2, 7, 29, 30, 31, 365} {
		checkOut := date("2025-01-01").AddDate(0, 0, nights)
		q, err := Calculate(6840, date("2025-01-01"), checkOut, 0.12)
		require.NoError(t, err)
		require.Equal(t, nights, q.Nights)
		require.Equal(t, q.Subtotal+q.Tax, q.Total)
	}
}

func TestCalculateRejectsBadDateRange(t *testing.T) {
	_, err := Calculate(4200, date("2025-09-04"), date("2025-09-04"), 0.12)
	require.ErrorIs(t, err, models.ErrInvalidDateRange)

	_, err = Calculate(4200, date("2025-09-04"), date("2025-09-01"), 0.12)
	require.ErrorIs(t, err, models.ErrInvalidDateRange)
}

func TestSubunitsRoundsToPesewas(t *testing.T) {
	q, err := Calculate(4200, date("2025-09-01"), date("2025-09-04"), 0.12)
	require.NoError(t, err)
	require.Equal(t, int64(47040), q.Subunits())

	// 4200/30 * 1 night * 1.12 = 156.8 exactly
	q, err = Calculate(4200, date("2025-09-01"), date("2025-09-02"), 0.12)
	require.NoError(t, err)
	require.Equal(t, int64(15680), q.Subunits())
}

func TestCalculateZeroPrice(t *testing.T) {
	q, err := Calculate(0, date("2025-09-01"), date("2025-09-03"), 0.12)
	require.NoError(t, err)
	require.Zero(t, q.Subtotal)
	require.Zero(t, q.Tax)
	require.Zero(t, q.Total)
	require.Zero(t, q.Subunits())
}
