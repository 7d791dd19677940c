package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/app/dto"
	appbooking "staybook/internal/app/services/booking"
	domainbooking "staybook/internal/domain/booking"
	domainlistings "staybook/internal/domain/listings"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/fault"
)

var errBadDate = fault.New(fault.KindValidation, "booking: dates must be ISO dates (YYYY-MM-DD)")

type BookingHandler struct {
	Service *appbooking.Service
}

type createBookingRequest struct {
	Listing    string `json:"listing" binding:"required"`
	CheckIn    string `json:"check_in" binding:"required"`
	CheckOut   string `json:"check_out" binding:"required"`
	TotalPrice int64  `json:"total_price"`
}

func (h BookingHandler) Create(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		respondError(c, err)
		return
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		respondError(c, err)
		return
	}
	b, err := h.Service.Create(c.Request.Context(), appbooking.CreateParams{
		Guest:       p.ID,
		Listing:     domainlistings.ID(req.Listing),
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		QuotedCents: req.TotalPrice,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapBooking(b))
}

func (h BookingHandler) Get(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	b, err := h.Service.ByID(c.Request.Context(), p.ID, domainbooking.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBooking(b))
}

func (h BookingHandler) ListMine(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	items, err := h.Service.GuestBookings(c.Request.Context(), p.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBookingCollection(items))
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h BookingHandler) UpdateStatus(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.Service.UpdateStatus(c.Request.Context(), p.ID, domainbooking.ID(c.Param("id")), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBooking(b))
}

func (h BookingHandler) Delete(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), p.ID, domainbooking.ID(c.Param("id"))); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HostBookingHandler exposes the bookings across every listing a host owns.
type HostBookingHandler struct {
	Service *appbooking.Service
}

func (h HostBookingHandler) List(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	items, err := h.Service.HostBookings(c.Request.Context(), p.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBookingCollection(items))
}

// parseDate accepts plain ISO dates and full RFC3339 timestamps; either way
// the value is truncated to a calendar day downstream.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(daterange.DayFormat, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, errBadDate
}
