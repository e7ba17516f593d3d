package handler

//go:generate mockgen -source=watchlist_handler.go -destination=mock_watchlist_service.go -package=handler

import (
	"context"
	"net/http"

	model "auction-marketplace/internal/models"
	"auction-marketplace/services/bidding/helpers"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

type WatchlistServiceInterface interface {
	Add(ctx context.Context, userID, auctionID int64) (model.WatchlistEntry, error)
	List(ctx context.Context, userID int64) ([]model.WatchedAuction, error)
	Remove(ctx context.Context, userID, auctionID int64) error
}

type WatchlistHandler struct {
	service WatchlistServiceInterface
}

func NewWatchlistHandler(service WatchlistServiceInterface) *WatchlistHandler {
	return &WatchlistHandler{service: service}
}

// AddHandler handles POST /watchlist
func (h *WatchlistHandler) AddHandler(c *gin.Context) {
	claims, ok := currentCaller(c, "WatchlistAddHandler")
	if !ok {
		return
	}

	var req helpers.WatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "WatchlistAddHandler", err)
		return
	}

	entry, err := h.service.Add(c.Request.Context(), claims.UserID, req.ProductID)
	if err != nil {
		helpers.RespondError(c, "WatchlistAddHandler", err, map[string]any{
			"user_id":    claims.UserID,
			"auction_id": req.ProductID,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, entry, "auction added to watchlist")
	helpers.LogSuccess("WatchlistAddHandler", "auction added to watchlist", map[string]any{
		"user_id":    entry.UserID,
		"auction_id": entry.AuctionID,
	})
}

// ListHandler handles GET /users/:user_id/watchlist
func (h *WatchlistHandler) ListHandler(c *gin.Context) {
	userID, ok := helpers.ParseIDParam(c, "WatchlistListHandler", "user_id")
	if !ok {
		return
	}

	watched, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondError(c, "WatchlistListHandler", err, map[string]any{"user_id": userID})
		return
	}

	if watched == nil {
		watched = []model.WatchedAuction{}
	}

	utils.JSONResponse(c, http.StatusOK, watched, "watchlist retrieved successfully")
}

// RemoveHandler handles DELETE /watchlist/:auction_id
func (h *WatchlistHandler) RemoveHandler(c *gin.Context) {
	claims, ok := currentCaller(c, "WatchlistRemoveHandler")
	if !ok {
		return
	}

	auctionID, ok := helpers.ParseIDParam(c, "WatchlistRemoveHandler", "auction_id")
	if !ok {
		return
	}

	if err := h.service.Remove(c.Request.Context(), claims.UserID, auctionID); err != nil {
		helpers.RespondError(c, "WatchlistRemoveHandler", err, map[string]any{
			"user_id":    claims.UserID,
			"auction_id": auctionID,
		})
		return
	}

	c.Status(http.StatusNoContent)
	helpers.LogSuccess("WatchlistRemoveHandler", "auction removed from watchlist", map[string]any{
		"user_id":    claims.UserID,
		"auction_id": auctionID,
	})
}
