package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jeffstoncourt/bookingserver/internal/models"
	"github.com/jeffstoncourt/bookingserver/internal/notify"
	"github.com/jeffstoncourt/bookingserver/internal/services"
)

// ListListings serves the filtered, paged catalogue. minPrice/maxPrice and
// bedrooms are optional; page defaults to 1.
func ListListings(ls *services.ListingsService, notifier notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		criteria := models.FilterCriteria{}

		minRaw := c.Query("minPrice")
		maxRaw := c.Query("maxPrice")
		if minRaw != "" || maxRaw != "" {
			criteria.HasPriceRange = true
			if minRaw != "" {
				min, err := strconv.ParseFloat(minRaw, 64)
				if err != nil || min < 0 {
					c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid minPrice parameter"))
					return
				}
				criteria.MinPrice = min
			}
			if maxRaw != "" {
				max, err := strconv.ParseFloat(maxRaw, 64)
				if err != nil || max < 0 {
					c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid maxPrice parameter"))
					return
				}
				criteria.MaxPrice = max
			}
		}

		if bedroomsRaw := c.Query("bedrooms"); bedroomsRaw != "" {
			bedrooms, err := strconv.Atoi(bedroomsRaw)
			if err != nil || bedrooms < 0 {
				c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid bedrooms parameter"))
				return
			}
			criteria.MinBedrooms = bedrooms
		}

		page := 1
		if pageRaw := c.Query("page"); pageRaw != "" {
			parsed, err := strconv.Atoi(pageRaw)
			if err != nil || parsed < 1 {
				c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid page parameter"))
				return
			}
			page = parsed
		}

		items, total, _, err := ls.Browse(c.Request.Context(), criteria, page)
		if err != nil {
			c.JSON(http.StatusBadGateway, models.ErrorResponse(err.Error()))
			return
		}

		res := models.PaginatedResponse(items, page, ls.PageSize(), total)
		res.Notifications = notifier.Drain()
		c.JSON(http.StatusOK, res)
	}
}

// GetListing resolves one listing by id so the booking form can preselect
// an apartment linked from elsewhere.
func GetListing(ls *services.ListingsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("listing ID is required"))
			return
		}

		listing, err := ls.Get(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse(err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(listing, ""))
	}
}

// ListApartments serves the booking form's apartment options. An apt_id
// query param is echoed back as the preselected option when it matches one.
func ListApartments(ls *services.ListingsService, notifier notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		apartments, err := ls.Apartments(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadGateway, models.ErrorResponse(err.Error()))
			return
		}

		preselected := ""
		if aptID := c.Query("apt_id"); aptID != "" {
			for _, a := range apartments {
				if a.ID == aptID {
					preselected = aptID
					break
				}
			}
		}

		res := models.SuccessResponse(gin.H{
			"apartments":  apartments,
			"preselected": preselected,
		}, "")
		res.Notifications = notifier.Drain()
		c.JSON(http.StatusOK, res)
	}
}
