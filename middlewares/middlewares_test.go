package middlewares

import (
	"Appointo/services"
	"Appointo/utils"
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestValidateBearerToken(t *testing.T) {
	r := gin.New()
	r.POST("/admin", ValidateBearerToken("s3cret"), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic s3cret", http.StatusUnauthorized},
		{"wrong token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer s3cret", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, serve(r, req).Code)
		})
	}
}

func TestValidateBearerToken_EmptyExpectedRejectsAll(t *testing.T) {
	r := gin.New()
	r.POST("/admin", ValidateBearerToken(""), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.Header.Set("Authorization", "Bearer x")
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
}

func TestTokenAuthMiddleware(t *testing.T) {
	tokens, err := utils.NewTokenMaker("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	access, refresh, err := tokens.GenerateTokens(7)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", TokenAuthMiddleware(tokens), func(c *gin.Context) {
		id, err := ExtractUserIDFromContext(c.Request.Context())
		require.NoError(t, err)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	// cookie
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: utils.AccessTokenCookie, Value: access})
	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7}`, w.Body.String())

	// bearer header
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	assert.Equal(t, http.StatusOK, serve(r, req).Code)

	// refresh tokens are not access tokens
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: utils.AccessTokenCookie, Value: refresh})
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
}

func TestExtractUserIDFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := ExtractUserIDFromContext(req.Context())
	assert.Error(t, err)

	id, err := ExtractUserIDFromContext(WithUserID(req.Context(), 3))
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
}

func TestRateLimiter_PerClient(t *testing.T) {
	r := gin.New()
	r.GET("/", NewRateLimiterMiddleware(RateLimiterConfig{RequestsPerSecond: 0.001, Burst: 2}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	request := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		return serve(r, req).Code
	}

	assert.Equal(t, http.StatusOK, request("10.0.0.1"))
	assert.Equal(t, http.StatusOK, request("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, request("10.0.0.1"))
	assert.Equal(t, http.StatusOK, request("10.0.0.2"))
}

func TestRateLimiter_ForgetsIdleClients(t *testing.T) {
	d := &rateLimiterData{
		clients: map[string]*clientLimiter{},
		config:  RateLimiterConfig{RequestsPerSecond: 1, Burst: 1, IdleTTL: time.Minute},
	}
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d.lastGC = start

	assert.True(t, d.allow("a", start))
	assert.Len(t, d.clients, 1)

	assert.True(t, d.allow("b", start.Add(2*time.Minute)))
	assert.Len(t, d.clients, 1)
}

func TestCorsMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CorsMiddleware(DefaultCorsConfig([]string{"http://localhost:5173"})), SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = serve(r, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	w = serve(r, req)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		reason string
	}{
		{&services.Error{Kind: services.KindNotFound, Reason: services.ReasonDoctorNotFound, Message: "Doctor not found"}, http.StatusNotFound, services.ReasonDoctorNotFound},
		{&services.Error{Kind: services.KindRejected, Reason: services.ReasonFullyBooked, Message: "full"}, http.StatusBadRequest, services.ReasonFullyBooked},
		{&services.Error{Kind: services.KindConflict, Reason: services.ReasonDoctorExists, Message: "dup"}, http.StatusConflict, services.ReasonDoctorExists},
		{&services.Error{Kind: services.KindUnauthorized, Reason: services.ReasonInvalidCredentials, Message: "no"}, http.StatusUnauthorized, services.ReasonInvalidCredentials},
		{errors.New("db is down"), http.StatusInternalServerError, services.ReasonInternal},
	}
	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			r := gin.New()
			r.GET("/", func(c *gin.Context) { RespondServiceError(c, tt.err) })
			w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.status, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.reason, body["reason"])
			assert.NotContains(t, body["error"], "db is down")
		})
	}
}

func TestLoggingAndRecovery(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	r := gin.New()
	r.Use(LoggingMiddleware(logger), RecoveryMiddleware(logger))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), `"path":"/boom"`)
	assert.Contains(t, buf.String(), `"status":500`)
}
