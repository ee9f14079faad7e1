// Package export renders booking records into spreadsheet workbooks for
// download by the property manager.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jeffstoncourt/bookingserver/internal/models"
)

const bookingsSheet = "Bookings"

var bookingHeaders = []string{
	"Reference", "Apartment", "Check-in", "Check-out", "Guests",
	"Name", "Email", "Phone", "Amount (GHS)", "Status", "Payment Reference", "Created At",
}

// WriteBookings writes an .xlsx workbook with one row per booking to w.
func WriteBookings(w io.Writer, bookings []models.BookingRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(bookingsSheet)
	if err != nil {
		return fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("error creating header style: %v", err)
	}

	for i, header := range bookingHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(bookingsSheet, cell, header)
		f.SetCellStyle(bookingsSheet, cell, cell, headerStyle)
	}

	confirmedStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#C6EFCE"}, Pattern: 1},
	})
	pendingStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFEB9C"}, Pattern: 1},
	})

	for i, b := range bookings {
		row := i + 2
		f.SetCellValue(bookingsSheet, fmt.Sprintf("A%d", row), b.Reference)
		f.SetCellValue(bookingsSheet, fmt.Sprintf("B%d", row), b.ApartmentTitle)
		f.SetCellValue(bookingsSheet, fmt.Sprintf("C%d", row), b.CheckIn)
		f.SetCellValue(bookingsSheet, fmt.Sprintf("D%d", row), b.CheckOut)
		f.SetCellValue(bookingsSheet, fmt.Sprintf("E%d", row), b.Guests)
		f.SetCellValue(bookingsSheet, fmt.Sprintf("F%d", row), b.Name)
		f.SetCellValue(bookingsSheet, fmt.Sprintf("G%d", row), b.Email)
		f.SetCellValue(bookingsSheet, fmt.Sprintf("H%d", row), b.Phone)
		f.SetCellValue(bookingsSheet, fmt.Sprintf("I%d", row), b.Amount)
		f.SetCellValue(bookingsSheet, fmt.Sprintf("J%d", row), string(b.Status))
		f.SetCellValue(bookingsSheet, fmt.Sprintf("K%d", row), b.PaymentReference)
		if !b.CreatedAt.IsZero() {
			f.SetCellValue(bookingsSheet, fmt.Sprintf("L%d", row), b.CreatedAt.Format("2006-01-02 15:04"))
		}

		statusCell := fmt.Sprintf("J%d", row)
		if b.Status == models.BookingConfirmed {
			f.SetCellStyle(bookingsSheet, statusCell, statusCell, confirmedStyle)
		} else {
			f.SetCellStyle(bookingsSheet, statusCell, statusCell, pendingStyle)
		}
	}

	f.SetColWidth(bookingsSheet, "A", "A", 26)
	f.SetColWidth(bookingsSheet, "B", "B", 28)
	f.SetColWidth(bookingsSheet, "C", "D", 12)
	f.SetColWidth(bookingsSheet, "F", "G", 24)
	f.SetColWidth(bookingsSheet, "H", "H", 16)
	f.SetColWidth(bookingsSheet, "K", "L", 22)

	f.DeleteSheet("Sheet1")

	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing workbook: %v", err)
	}
	return nil
}

// FileName builds the download name for an export taken now.
func FileName(stamp string) string {
	return fmt.Sprintf("bookings_export_%s.xlsx", stamp)
}
