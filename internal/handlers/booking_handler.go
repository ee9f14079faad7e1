package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jeffstoncourt/bookingserver/internal/booking"
	"github.com/jeffstoncourt/bookingserver/internal/models"
	"github.com/jeffstoncourt/bookingserver/internal/notify"
	"github.com/jeffstoncourt/bookingserver/internal/services"
)

// CreateBooking runs a submission through the booking flow and returns the
// reference, priced quote and the payment authorization URL.
func CreateBooking(bs *services.BookingService, notifier notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.BookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		outcome, err := bs.Submit(c.Request.Context(), req)
		if err != nil {
			res := models.ErrorResponse(err.Error())
			res.Notifications = notifier.Drain()

			var fields booking.FieldErrors
			switch {
			case errors.As(err, &fields):
				res.Data = fields
				c.JSON(http.StatusUnprocessableEntity, res)
			case errors.Is(err, models.ErrSubmissionInFlight):
				c.JSON(http.StatusConflict, res)
			case errors.Is(err, models.ErrBookingFailed):
				c.JSON(http.StatusBadGateway, res)
			default:
				c.JSON(http.StatusInternalServerError, res)
			}
			return
		}

		res := models.SuccessResponse(outcome, "Booking created successfully! Proceeding to payment...")
		res.Notifications = notifier.Drain()
		c.JSON(http.StatusCreated, res)
	}
}

type paymentRequest struct {
	Reference string `json:"reference" binding:"required"`
}

// VerifyPayment settles a reported payment against the provider and runs
// the confirmation step.
func VerifyPayment(bs *services.BookingService, notifier notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req paymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("payment reference is required"))
			return
		}

		if err := bs.VerifyPayment(c.Request.Context(), req.Reference); err != nil {
			res := models.ErrorResponse(err.Error())
			res.Notifications = notifier.Drain()
			c.JSON(http.StatusBadGateway, res)
			return
		}

		res := models.SuccessResponse(gin.H{
			"reference":      req.Reference,
			"state":          bs.State(),
			"submit_enabled": bs.SubmitEnabled(),
		}, "")
		res.Notifications = notifier.Drain()

		if bs.State() == booking.StateError {
			res.Success = false
			c.JSON(http.StatusBadGateway, res)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// CancelPayment unwinds a closed payment window without treating it as an
// error.
func CancelPayment(bs *services.BookingService, notifier notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req paymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("payment reference is required"))
			return
		}

		if err := bs.CancelPayment(req.Reference); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		res := models.SuccessResponse(gin.H{
			"state":          bs.State(),
			"submit_enabled": bs.SubmitEnabled(),
		}, "")
		res.Notifications = notifier.Drain()
		c.JSON(http.StatusOK, res)
	}
}

// BookingState reports the flow's current state for the frontend to sync
// its submit control and show the last failure, if any.
func BookingState(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
			"state":          bs.State(),
			"submit_enabled": bs.SubmitEnabled(),
			"last_error":     bs.LastError(),
		}, ""))
	}
}
