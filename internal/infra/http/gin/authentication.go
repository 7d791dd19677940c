package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/app/services/auth"
	domainauth "staybook/internal/domain/auth"
	domainuser "staybook/internal/domain/user"
)

const principalContextKey = "staybook.principal"

// sessionCookie mirrors the token header for browser clients.
const sessionCookie = "token"

type principal struct {
	ID    domainuser.ID
	Email string
	Name  string
	Host  bool
	Token string
}

type AuthMiddleware struct {
	Service *auth.Service
	Logger  *slog.Logger
}

// Handle resolves the bearer token (or session cookie) into a principal.
// Anonymous requests pass through; protected handlers enforce presence.
func (m AuthMiddleware) Handle(c *gin.Context) {
	token := extractToken(c)
	if token == "" || m.Service == nil {
		c.Next()
		return
	}
	u, err := m.Service.ResolveToken(c.Request.Context(), token)
	if err != nil {
		if !errors.Is(err, domainauth.ErrSessionNotFound) && m.Logger != nil {
			m.Logger.Debug("token resolution failed", "error", err)
		}
		c.Next()
		return
	}
	c.Set(principalContextKey, principal{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Host:  u.IsHost(),
		Token: token,
	})
	c.Next()
}

func currentPrincipal(c *gin.Context) (principal, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return principal{}, false
	}
	p, ok := val.(principal)
	return p, ok
}

func requireUser(c *gin.Context) (principal, bool) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
		return principal{}, false
	}
	return p, true
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	if cookie, err := c.Cookie(sessionCookie); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}
