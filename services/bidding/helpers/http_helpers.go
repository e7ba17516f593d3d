package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"auction-marketplace/internal/biddingerrors"
	"auction-marketplace/internal/lifecycle"
	model "auction-marketplace/internal/models"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
		}
		utils.JSONErrorWithDetails(c, http.StatusBadRequest, wrappedErr, "invalid request payload", fields)
	} else {
		utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	}
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, biddingerrors.ErrAuctionNotFound):
		return http.StatusNotFound, "auction not found"
	case errors.Is(err, biddingerrors.ErrNoBids):
		return http.StatusNotFound, "no bids found for auction"
	case errors.Is(err, biddingerrors.ErrWatchlistEntryNotFound):
		return http.StatusNotFound, "auction is not in watchlist"
	case errors.Is(err, biddingerrors.ErrAuctionClosed):
		return http.StatusBadRequest, "auction is not open for bidding"
	case errors.Is(err, biddingerrors.ErrSelfBid):
		return http.StatusBadRequest, "sellers cannot bid on their own auction"
	case errors.Is(err, biddingerrors.ErrBidTooLow):
		return http.StatusBadRequest, "bid amount must exceed the current price"
	case errors.Is(err, biddingerrors.ErrBidBelowIncrement):
		return http.StatusBadRequest, "bid amount is below the minimum increment"
	case errors.Is(err, biddingerrors.ErrInvalidAutoBid):
		return http.StatusBadRequest, "auto-bid maximum must exceed the bid amount"
	case errors.Is(err, biddingerrors.ErrUnsupportedAuctionType):
		return http.StatusBadRequest, "auction type does not accept bids"
	case errors.Is(err, biddingerrors.ErrInvalidBid):
		return http.StatusBadRequest, "invalid bid details"
	case errors.Is(err, biddingerrors.ErrInvalidAuction):
		return http.StatusBadRequest, "invalid auction details"
	case errors.Is(err, biddingerrors.ErrAlreadyWatching):
		return http.StatusBadRequest, "auction already in watchlist"
	case errors.Is(err, biddingerrors.ErrForbidden):
		return http.StatusForbidden, "not allowed"
	case errors.Is(err, biddingerrors.ErrHasBids):
		return http.StatusConflict, "auction already has bids"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// RespondError writes the mapped error response and logs it. Minimum bid
// rejections carry the acceptable floor in details.
func RespondError(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, message := MapErrorToHTTP(err)

	var minErr *biddingerrors.MinimumBidError
	if errors.As(err, &minErr) {
		utils.JSONErrorWithDetails(c, status, fmt.Errorf("%s: %w", message, err), message, MinimumBidDetails{MinAmount: minErr.MinAmount})
	} else {
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
	}

	if fields == nil {
		fields = map[string]any{}
	}
	fields["handler"] = handlerName
	fields["status"] = status
	fields["error"] = err.Error()
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", fields)
	} else {
		utils.Warn(handlerName+": request rejected", fields)
	}
}

// ParseIDParam reads a positive integer path parameter, answering 400 when it is not one
func ParseIDParam(c *gin.Context, handlerName, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		utils.JSONError(c, http.StatusBadRequest, fmt.Errorf("invalid %s %q", name, raw), "invalid "+name)
		utils.Warn(handlerName+": invalid path parameter", map[string]any{name: raw})
		return 0, false
	}
	return id, true
}

// NewAuctionResponse attaches the countdown as of now
func NewAuctionResponse(a model.Auction, now time.Time) AuctionResponse {
	return AuctionResponse{
		Auction:              a,
		TimeRemainingSeconds: int64(lifecycle.TimeRemaining(a, now).Seconds()),
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
