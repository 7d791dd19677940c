package ginserver

import (
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/app/dto"
	applistings "staybook/internal/app/services/listings"
	domainlistings "staybook/internal/domain/listings"
)

// ListingHandler serves the public catalog: browse with filters and the
// detail view with its unavailable-dates projection.
type ListingHandler struct {
	Service *applistings.Service
}

func (h ListingHandler) Catalog(c *gin.Context) {
	filter := domainlistings.Filter{
		Location: c.Query("location"),
		MinCents: parseInt64Query(c, "min_price"),
		MaxCents: parseInt64Query(c, "max_price"),
		Page:     int(parseInt64Query(c, "page")),
		Limit:    int(parseInt64Query(c, "limit")),
	}
	// Guests browsing while logged in do not see their own listings.
	if p, ok := currentPrincipal(c); ok {
		filter.ExcludeHost = p.ID
	}
	page, err := h.Service.Search(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapListingPage(page))
}

func (h ListingHandler) Detail(c *gin.Context) {
	detail, err := h.Service.Detail(c.Request.Context(), domainlistings.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapListingDetail(detail.Listing, detail.UnavailableDates))
}

func parseInt64Query(c *gin.Context, key string) int64 {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
