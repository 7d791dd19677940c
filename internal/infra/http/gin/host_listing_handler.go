package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/app/dto"
	applistings "staybook/internal/app/services/listings"
	domainlistings "staybook/internal/domain/listings"
)

// HostListingHandler covers the host-side listing lifecycle, including the
// deletion cascade and photo uploads.
type HostListingHandler struct {
	Service *applistings.Service
}

type listingPayload struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Location       string     `json:"location"`
	PricePerNight  int64      `json:"price_per_night"`
	AvailableFrom  *time.Time `json:"available_from"`
	AvailableUntil *time.Time `json:"available_until"`
}

func (p listingPayload) window() domainlistings.Window {
	var w domainlistings.Window
	if p.AvailableFrom != nil {
		w.From = *p.AvailableFrom
	}
	if p.AvailableUntil != nil {
		w.Until = *p.AvailableUntil
	}
	return w
}

func (h HostListingHandler) List(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	owned, err := h.Service.HostListings(c.Request.Context(), p.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	items := make([]dto.Listing, 0, len(owned))
	for _, l := range owned {
		items = append(items, dto.MapListing(l))
	}
	c.JSON(http.StatusOK, gin.H{"listings": items})
}

func (h HostListingHandler) Create(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	var req listingPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	listing, err := h.Service.Create(c.Request.Context(), p.ID, applistings.CreateParams{
		Title:            req.Title,
		Description:      req.Description,
		Location:         req.Location,
		NightlyRateCents: req.PricePerNight,
		Window:           req.window(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapListing(listing))
}

func (h HostListingHandler) Update(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	var req listingPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	params := domainlistings.UpdateParams{
		Title:            req.Title,
		Description:      req.Description,
		Location:         req.Location,
		NightlyRateCents: req.PricePerNight,
	}
	if req.AvailableFrom != nil || req.AvailableUntil != nil {
		w := req.window()
		params.Window = &w
	}
	listing, err := h.Service.Update(c.Request.Context(), p.ID, domainlistings.ID(c.Param("id")), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapListing(listing))
}

func (h HostListingHandler) Delete(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), p.ID, domainlistings.ID(c.Param("id"))); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadPhotos accepts multipart form files under the "photos" field.
func (h HostListingHandler) UploadPhotos(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	files := form.File["photos"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no photos provided"})
		return
	}
	uploads := make([]applistings.PhotoUpload, 0, len(files))
	opened := make([]interface{ Close() error }, 0, len(files))
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()
	for _, file := range files {
		reader, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		opened = append(opened, reader)
		uploads = append(uploads, applistings.PhotoUpload{
			Filename:    file.Filename,
			ContentType: file.Header.Get("Content-Type"),
			Reader:      reader,
		})
	}
	listing, err := h.Service.AddPhotos(c.Request.Context(), p.ID, domainlistings.ID(c.Param("id")), uploads)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapListing(listing))
}
