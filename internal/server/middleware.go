package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"auction-marketplace/internal/auth"
	"auction-marketplace/internal/biddingerrors"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const requestIDHeader = "X-Request-ID"

// RequestLoggerMiddleware logs incoming requests with timing and tags them with a request id
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	requestID := c.GetHeader(requestIDHeader)
	if !utils.IsValidID(requestID) {
		requestID = utils.GenerateID()
	}
	c.Header(requestIDHeader, requestID)

	c.Next() // process request

	utils.Info("HTTP Request", map[string]any{
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"status":     c.Writer.Status(),
		"latency":    time.Since(start).String(),
		"request_id": requestID,
	})
}

// AuthRequired verifies the bearer token and stores the caller's claims
func AuthRequired(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, errors.New("missing token"))
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, errors.New("invalid token format"))
			return
		}

		claims, err := tokens.Validate(parts[1])
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		auth.SetClaims(c, claims)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusUnauthorized, err, "authentication required")
	c.Abort()
}

// OwnerOrAdmin lets the request through when the caller is the user named by
// the path parameter, or an admin
func OwnerOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := auth.ClaimsFrom(c)
		if !ok {
			abortUnauthorized(c, auth.ErrInvalidToken)
			return
		}

		if claims.IsAdmin || c.Param(param) == strconv.FormatInt(claims.UserID, 10) {
			c.Next()
			return
		}

		utils.JSONError(c, http.StatusForbidden, biddingerrors.ErrForbidden, "not allowed")
		utils.Warn("OwnerOrAdmin: access denied", map[string]any{
			"user_id": claims.UserID,
			"path":    c.Request.URL.Path,
		})
		c.Abort()
	}
}

// RateLimit rejects requests beyond the limiter's budget with 429
func RateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter != nil && !limiter.Allow() {
			utils.JSONError(c, http.StatusTooManyRequests, errors.New("rate limit exceeded"), "too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}
