package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"auction-marketplace/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func echoCaller(c *gin.Context) {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		c.Status(http.StatusTeapot)
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": claims.UserID, "isAdmin": claims.IsAdmin})
}

func TestAuthRequired(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	other := auth.NewTokenManager("other-secret", time.Hour)

	valid, err := tokens.Generate(20, false)
	require.NoError(t, err)
	forged, err := other.Generate(20, true)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/me", AuthRequired(tokens), echoCaller)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{name: "valid_token", header: "Bearer " + valid, expectedStatus: http.StatusOK},
		{name: "lowercase_scheme", header: "bearer " + valid, expectedStatus: http.StatusOK},
		{name: "missing_header", header: "", expectedStatus: http.StatusUnauthorized},
		{name: "wrong_scheme", header: "Basic " + valid, expectedStatus: http.StatusUnauthorized},
		{name: "garbage_token", header: "Bearer not-a-jwt", expectedStatus: http.StatusUnauthorized},
		{name: "wrong_secret", header: "Bearer " + forged, expectedStatus: http.StatusUnauthorized},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tc.expectedStatus, w.Code)
		})
	}
}

func TestOwnerOrAdmin(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	owner, err := tokens.Generate(20, false)
	require.NoError(t, err)
	stranger, err := tokens.Generate(21, false)
	require.NoError(t, err)
	admin, err := tokens.Generate(1, true)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/users/:user_id/bids", AuthRequired(tokens), OwnerOrAdmin("user_id"), echoCaller)

	tests := []struct {
		name           string
		token          string
		expectedStatus int
	}{
		{name: "owner", token: owner, expectedStatus: http.StatusOK},
		{name: "admin", token: admin, expectedStatus: http.StatusOK},
		{name: "stranger", token: stranger, expectedStatus: http.StatusForbidden},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/users/20/bids", nil)
			req.Header.Set("Authorization", "Bearer "+tc.token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tc.expectedStatus, w.Code)
		})
	}
}

func TestRateLimit(t *testing.T) {
	router := gin.New()
	router.POST("/bids", RateLimit(rate.NewLimiter(rate.Every(time.Hour), 2)), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/bids", nil))
		codes = append(codes, w.Code)
	}
	require.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)
}

func TestRateLimitDisabled(t *testing.T) {
	router := gin.New()
	router.POST("/bids", RateLimit(nil), func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/bids", nil))
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestRequestLoggerMiddleware_RequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestLoggerMiddleware)
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	generated := w.Header().Get(requestIDHeader)
	require.NotEmpty(t, generated)

	const supplied = "3f2b8c1e-9a4d-4e6f-8b7a-1c2d3e4f5a6b"
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, supplied)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, supplied, w.Header().Get(requestIDHeader))
}
