package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/glowpoint/salon-api/internal/auth"
	"github.com/glowpoint/salon-api/internal/config"
	"github.com/glowpoint/salon-api/internal/httperr"
)

type AuthHandler struct {
	config  *config.Config
	limiter auth.Limiter
}

func NewAuthHandler(cfg *config.Config, limiter auth.Limiter) *AuthHandler {
	return &AuthHandler{
		config:  cfg,
		limiter: limiter,
	}
}

// --------- Requests ---------

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// ======================================================
// LOGIN
// ======================================================

// Login checks the shared admin password and issues a short-lived session
// token. Failures count toward a per-IP lockout.
func (h *AuthHandler) Login(c *gin.Context) {
	ip := c.ClientIP()
	ctx := c.Request.Context()

	locked, err := h.limiter.Locked(ctx, ip)
	if err != nil {
		httperr.Internal(c, "Ошибка сервера")
		return
	}
	if locked {
		httperr.Write(c, http.StatusTooManyRequests, "Слишком много попыток входа, попробуйте позже")
		return
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "Пароль обязателен")
		return
	}

	if h.config.AdminPasswordHash == "" {
		httperr.Internal(c, "Пароль администратора не настроен")
		return
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(h.config.AdminPasswordHash),
		[]byte(req.Password),
	); err != nil {
		_ = h.limiter.RecordFailure(ctx, ip)
		httperr.Unauthorized(c, "Неверный пароль")
		return
	}

	_ = h.limiter.Reset(ctx, ip)

	ttl := time.Duration(h.config.SessionTTLMinutes) * time.Minute

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(ttl).Unix(),
	})

	signed, err := token.SignedString([]byte(h.config.JWTSecret))
	if err != nil {
		httperr.Internal(c, "Ошибка сервера")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      signed,
		"expires_in": int(ttl.Seconds()),
	})
}
