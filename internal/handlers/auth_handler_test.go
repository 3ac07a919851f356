package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/glowpoint/salon-api/internal/auth"
	"github.com/glowpoint/salon-api/internal/config"
)

func newLoginRouter(t *testing.T, maxAttempts int) (*gin.Engine, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{
		JWTSecret:         "test-secret",
		SessionTTLMinutes: 60,
		AdminPasswordHash: string(hash),
	}

	h := NewAuthHandler(cfg, auth.NewMemoryLimiter(maxAttempts, time.Minute))

	r := gin.New()
	r.POST("/api/auth/login", h.Login)
	return r, cfg
}

func postLogin(r *gin.Engine, password string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(gin.H{"password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLogin_IssuesValidToken(t *testing.T) {
	r, cfg := newLoginRouter(t, 5)

	w := postLogin(r, "secret-password")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token     string `json:"token"`
		ExpiresIn int    `json:"expires_in"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 3600, resp.ExpiresIn)

	token, err := jwt.Parse(resp.Token, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	require.Equal(t, "admin", claims["sub"])
}

func TestLogin_WrongPassword(t *testing.T) {
	r, _ := newLoginRouter(t, 5)

	w := postLogin(r, "nope")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "error")
}

func TestLogin_MissingPassword(t *testing.T) {
	r, _ := newLoginRouter(t, 5)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_LockoutAfterFailures(t *testing.T) {
	r, _ := newLoginRouter(t, 2)

	require.Equal(t, http.StatusUnauthorized, postLogin(r, "nope").Code)
	require.Equal(t, http.StatusUnauthorized, postLogin(r, "nope").Code)

	// locked out now, even with the right password
	require.Equal(t, http.StatusTooManyRequests, postLogin(r, "secret-password").Code)
}

func TestLogin_SuccessResetsCounter(t *testing.T) {
	r, _ := newLoginRouter(t, 2)

	require.Equal(t, http.StatusUnauthorized, postLogin(r, "nope").Code)
	require.Equal(t, http.StatusOK, postLogin(r, "secret-password").Code)

	// the failure count starts over
	require.Equal(t, http.StatusUnauthorized, postLogin(r, "nope").Code)
	require.Equal(t, http.StatusOK, postLogin(r, "secret-password").Code)
}

func TestLogin_UnconfiguredHash(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{JWTSecret: "test-secret", SessionTTLMinutes: 60}
	h := NewAuthHandler(cfg, auth.NewMemoryLimiter(5, time.Minute))

	r := gin.New()
	r.POST("/api/auth/login", h.Login)

	require.Equal(t, http.StatusInternalServerError, postLogin(r, "anything").Code)
}
