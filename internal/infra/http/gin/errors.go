package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/domain/shared/fault"
)

// respondError maps the fault taxonomy onto HTTP statuses. Every rejection
// keeps its specific message so callers can tell Conflict (retry with other
// dates) from Forbidden or InvalidState (do not retry).
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch fault.KindOf(err) {
	case fault.KindValidation:
		status = http.StatusBadRequest
	case fault.KindNotFound:
		status = http.StatusNotFound
	case fault.KindConflict:
		status = http.StatusConflict
	case fault.KindForbidden:
		status = http.StatusForbidden
	case fault.KindInvalidState:
		status = http.StatusConflict
	case fault.KindStorage:
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
