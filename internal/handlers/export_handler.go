package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jeffstoncourt/bookingserver/internal/export"
	"github.com/jeffstoncourt/bookingserver/internal/models"
	"github.com/jeffstoncourt/bookingserver/internal/services"
)

// ExportBookings streams the stored bookings as an .xlsx download.
func ExportBookings(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookings, err := bs.Bookings(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusNotImplemented, models.ErrorResponse(err.Error()))
			return
		}

		fileName := export.FileName(time.Now().Format("2006-01-02"))
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))

		if err := export.WriteBookings(c.Writer, bookings); err != nil {
			c.Error(err)
		}
	}
}
