package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/app/dto"
	"staybook/internal/app/services/auth"
)

type AuthHandler struct {
	Service    *auth.Service
	SessionTTL time.Duration
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone_number"`
	Address  string `json:"address"`
	Host     bool   `json:"is_host"`
}

func (h AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Service.Register(c.Request.Context(), auth.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
		Host:     req.Host,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	h.setSessionCookie(c, result.Token)
	c.JSON(http.StatusCreated, gin.H{"user": dto.MapUser(result.User), "token": result.Token})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Service.Login(c.Request.Context(), auth.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	h.setSessionCookie(c, result.Token)
	c.JSON(http.StatusOK, gin.H{"user": dto.MapUser(result.User), "token": result.Token})
}

func (h AuthHandler) Logout(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.Service.Logout(c.Request.Context(), p.Token); err != nil {
		respondError(c, err)
		return
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", true, true)
	c.Status(http.StatusNoContent)
}

func (h AuthHandler) Me(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	u, err := h.Service.ResolveToken(c.Request.Context(), p.Token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": dto.MapUser(u)})
}

func (h AuthHandler) setSessionCookie(c *gin.Context, token string) {
	ttl := h.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	c.SetCookie(sessionCookie, token, int(ttl.Seconds()), "/", "", true, true)
}
