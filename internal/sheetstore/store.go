// Package sheetstore reads and writes the booking spreadsheet directly
// through the Sheets API, for deployments that skip the script endpoint and
// give the server a service account instead. It implements the same storage
// contract as the remote client: Listings rows feed the catalog, bookings
// are appended to the Bookings sheet and flipped to Confirmed once payment
// verifies.
package sheetstore

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/jeffstoncourt/bookingserver/internal/models"
)

const (
	listingsRange = "Listings!A1:Z"
	bookingsRange = "Bookings!A1:Z"

	// Bookings sheet columns, matching the header row CreateBooking writes.
	colTimestamp = 0
	colReference = 1
	colStatus    = 10
	colPayRef    = 11
)

var bookingsHeader = []interface{}{
	"Timestamp", "Reference", "Name", "Email", "Phone",
	"Apartment", "Check-in", "Check-out", "Guests",
	"Amount", "Status", "Payment Reference",
}

type Store struct {
	service       *sheets.Service
	spreadsheetID string
}

func NewStore(ctx context.Context, credentialsFile, spreadsheetID string) (*Store, error) {
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %v", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %v", err)
	}

	client := config.Client(ctx)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %v", err)
	}

	return &Store{service: srv, spreadsheetID: spreadsheetID}, nil
}

// NewStoreWithService wires an existing Sheets service; tests use this with
// a stub HTTP backend.
func NewStoreWithService(service *sheets.Service, spreadsheetID string) *Store {
	return &Store{service: service, spreadsheetID: spreadsheetID}
}

// TestConnection reads the listings header to prove the account can see the
// spreadsheet.
func (s *Store) TestConnection() error {
	_, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, "Listings!A1").Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %v", err)
	}
	return nil
}

// FetchListings reads the Listings sheet. The header row drives the field
// mapping so column order in the spreadsheet does not matter; rows get the
// same defaults the script applied (generated APT id, price 0, available
// yes, one bedroom).
func (s *Store) FetchListings(ctx context.Context) ([]models.Listing, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, listingsRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading listings sheet: %w: %v", models.ErrTransport, err)
	}
	if len(resp.Values) < 2 {
		return []models.Listing{}, nil
	}

	headers := resp.Values[0]
	out := make([]models.Listing, 0, len(resp.Values)-1)
	for i, row := range resp.Values[1:] {
		raw := make(map[string]any, len(headers))
		for j, h := range headers {
			name, ok := h.(string)
			if !ok || j >= len(row) {
				continue
			}
			raw[name] = row[j]
		}
		l := models.NormalizeListing(raw)
		if l.ID == "" {
			l.ID = fmt.Sprintf("APT%03d", i+1)
		}
		out = append(out, l)
	}
	return out, nil
}

// FetchApartments reduces the available listings to dropdown summaries.
func (s *Store) FetchApartments(ctx context.Context) ([]models.ApartmentOption, error) {
	all, err := s.FetchListings(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.ApartmentOption, 0, len(all))
	for _, l := range all {
		if !l.Available {
			continue
		}
		out = append(out, models.ApartmentOption{ID: l.ID, Type: l.Title, Price: l.PriceGHS})
	}
	return out, nil
}

// CreateBooking appends one row to the Bookings sheet, creating the header
// row first if the sheet is still empty.
func (s *Store) CreateBooking(ctx context.Context, record *models.BookingRecord) (*models.SubmitResult, error) {
	if err := s.ensureBookingsHeader(ctx); err != nil {
		return nil, err
	}

	row := []interface{}{
		record.CreatedAt.Format("2006-01-02 15:04:05"),
		record.Reference,
		record.Name,
		record.Email,
		record.Phone,
		record.ApartmentTitle,
		record.CheckIn,
		record.CheckOut,
		strconv.Itoa(record.Guests),
		fmt.Sprintf("%.2f", record.Amount),
		string(models.BookingPending),
		"",
	}

	valueRange := &sheets.ValueRange{Values: [][]interface{}{row}}
	_, err := s.service.Spreadsheets.Values.Append(s.spreadsheetID, "Bookings!A:A", valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("appending booking row: %w: %v", models.ErrTransport, err)
	}

	return &models.SubmitResult{
		Success:   true,
		BookingID: record.Reference,
		Message:   "Booking created successfully",
	}, nil
}

// VerifyPayment finds the booking row by reference and marks it Confirmed,
// storing the payment reference alongside.
func (s *Store) VerifyPayment(ctx context.Context, reference string) (*models.SubmitResult, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, bookingsRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading bookings sheet: %w: %v", models.ErrTransport, err)
	}

	for i, row := range resp.Values {
		if i == 0 || len(row) <= colReference {
			continue
		}
		if fmt.Sprintf("%v", row[colReference]) != reference {
			continue
		}

		update := &sheets.ValueRange{
			Values: [][]interface{}{{string(models.BookingConfirmed), reference}},
		}
		rangeData := fmt.Sprintf("Bookings!K%d:L%d", i+1, i+1)
		_, err := s.service.Spreadsheets.Values.Update(s.spreadsheetID, rangeData, update).
			ValueInputOption("RAW").
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("updating booking status: %w: %v", models.ErrTransport, err)
		}
		return &models.SubmitResult{Success: true, Message: "Payment verified successfully"}, nil
	}

	return &models.SubmitResult{
		Success: false,
		Message: fmt.Sprintf("No booking found for reference %s", reference),
	}, nil
}

// FetchBookings reads every booking row, newest last. Used by the export
// surface.
func (s *Store) FetchBookings(ctx context.Context) ([]models.BookingRecord, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, bookingsRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading bookings sheet: %w: %v", models.ErrTransport, err)
	}

	out := make([]models.BookingRecord, 0)
	for i, row := range resp.Values {
		if i == 0 {
			continue
		}
		out = append(out, bookingFromRow(row))
	}
	return out, nil
}

func bookingFromRow(row []interface{}) models.BookingRecord {
	get := func(i int) string {
		if i >= len(row) || row[i] == nil {
			return ""
		}
		return fmt.Sprintf("%v", row[i])
	}

	guests, _ := strconv.Atoi(get(8))
	amount, _ := strconv.ParseFloat(get(9), 64)
	created, _ := time.Parse("2006-01-02 15:04:05", get(colTimestamp))

	return models.BookingRecord{
		Reference:        get(colReference),
		Name:             get(2),
		Email:            get(3),
		Phone:            get(4),
		ApartmentTitle:   get(5),
		CheckIn:          get(6),
		CheckOut:         get(7),
		Guests:           guests,
		Amount:           amount,
		Status:           models.BookingStatus(get(colStatus)),
		PaymentReference: get(colPayRef),
		CreatedAt:        created,
	}
}

func (s *Store) ensureBookingsHeader(ctx context.Context) error {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, "Bookings!A1:L1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("reading bookings header: %w: %v", models.ErrTransport, err)
	}
	if len(resp.Values) > 0 {
		return nil
	}

	valueRange := &sheets.ValueRange{Values: [][]interface{}{bookingsHeader}}
	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, "Bookings!A1", valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("writing bookings header: %w: %v", models.ErrTransport, err)
	}
	return nil
}
