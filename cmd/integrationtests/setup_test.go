package integrationtests

import (
	"auction-marketplace/internal/auth"
	bidding "auction-marketplace/internal/biddingService"
	"auction-marketplace/internal/cache"
	"auction-marketplace/internal/repository"
	"auction-marketplace/internal/server"
	watchlist "auction-marketplace/internal/watchlistService"
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testSecret = "integration-secret"

// testEnv is a fully wired API over an in-memory store
type testEnv struct {
	router *gin.Engine
	tokens *auth.TokenManager
}

// SetupTestEnv initializes the router with the in-memory repository and real services
func SetupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepo()
	tokens := auth.NewTokenManager(testSecret, time.Hour)

	router := server.SetupRouter(server.Dependencies{
		Bidding:   bidding.NewBiddingService(repo, bidding.WithBidCache(cache.NewBidCache(1, time.Minute))),
		Watchlist: watchlist.NewWatchlistService(repo, repo),
		Tokens:    tokens,
	})
	return &testEnv{router: router, tokens: tokens}
}

// TokenFor issues a bearer token for the given user
func (e *testEnv) TokenFor(t *testing.T, userID int64, isAdmin bool) string {
	t.Helper()
	token, err := e.tokens.Generate(userID, isAdmin)
	require.NoError(t, err)
	return token
}

// ExecuteRequestAndParse executes an HTTP request and parses the JSON envelope.
// An empty token sends the request unauthenticated.
func (e *testEnv) ExecuteRequestAndParse(t *testing.T, method, url, token string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case string:
		reqBody = []byte(v)
	default:
		var err error
		reqBody, err = json.Marshal(v)
		require.NoError(t, err, "failed to marshal body")
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var resp map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "failed to unmarshal response")
	}
	return resp, w
}

// CreateAuction lists an auction through the API and returns its id
func (e *testEnv) CreateAuction(t *testing.T, sellerToken string, price, increment float64, start, end time.Time) int64 {
	t.Helper()

	resp, w := e.ExecuteRequestAndParse(t, "POST", "/api/auctions", sellerToken, map[string]any{
		"title":        "Vintage camera",
		"description":  "Rangefinder, fully working",
		"categoryId":   1,
		"initialPrice": price,
		"increment":    increment,
		"startDate":    start.Format(time.RFC3339),
		"endDate":      end.Format(time.RFC3339),
	})
	require.Equal(t, 201, w.Code, w.Body.String())
	return int64(resp["data"].(map[string]any)["id"].(float64))
}
