package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jeffstoncourt/bookingserver/internal/models"
)

func TestWriteBookingsRoundTrip(t *testing.T) {
	bookings := []models.BookingRecord{
		{
			Reference:        "JC-1-abc",
			ApartmentTitle:   "2-Bedroom Luxury Apartment",
			CheckIn:          "2025-09-01",
			CheckOut:         "2025-09-04",
			Guests:           2,
			Name:             "Ama Mensah",
			Email:            "ama@example.com",
			Phone:            "+233201234567",
			Amount:           470.40,
			Status:           models.BookingConfirmed,
			PaymentReference: "JC-1-abc",
			CreatedAt:        time.Date(2025, 8, 30, 10, 0, 0, 0, time.UTC),
		},
		{
			Reference:      "JC-2-def",
			ApartmentTitle: "3-Bedroom Penthouse",
			CheckIn:        "2025-10-01",
			CheckOut:       "2025-10-02",
			Guests:         4,
			Name:           "Kofi Boateng",
			Email:          "kofi@example.com",
			Phone:          "+233501234567",
			Amount:         255.36,
			Status:         models.BookingPending,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBookings(&buf, bookings))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Bookings")
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per booking")

	require.Equal(t, "Reference", rows[0][0])
	require.Equal(t, "JC-1-abc", rows[1][0])
	require.Equal(t, "Confirmed", rows[1][9])
	require.Equal(t, "Pending", rows[2][9])
	require.Equal(t, "3-Bedroom Penthouse", rows[2][1])
}

func TestFileName(t *testing.T) {
	require.Equal(t, "bookings_export_2025-09-01.xlsx", FileName("2025-09-01"))
}
