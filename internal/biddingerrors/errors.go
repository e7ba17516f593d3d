package biddingerrors

import (
	"errors"
	"fmt"
)

// Repository-level errors
var (
	ErrAuctionNotFound        = errors.New("auction not found")
	ErrNoBids                 = errors.New("no bids found for auction")
	ErrHasBids                = errors.New("auction already has bids")
	ErrStatusConflict         = errors.New("auction status changed concurrently")
	ErrAlreadyWatching        = errors.New("auction already in watchlist")
	ErrWatchlistEntryNotFound = errors.New("watchlist entry not found")
)

// business logic errors
var (
	ErrInvalidBid             = errors.New("invalid bid")
	ErrInvalidAuction         = errors.New("invalid auction")
	ErrAuctionClosed          = errors.New("auction is not active or upcoming")
	ErrSelfBid                = errors.New("sellers cannot bid on their own auction")
	ErrBidTooLow              = errors.New("bid amount must be greater than the current price")
	ErrBidBelowIncrement      = errors.New("bid amount is below the minimum increment")
	ErrInvalidAutoBid         = errors.New("auto-bid requires a maximum amount above the bid")
	ErrUnsupportedAuctionType = errors.New("auction type not supported for bidding")
	ErrForbidden              = errors.New("not authorized for this resource")
)

// MinimumBidError is returned for bids under the acceptable floor.
// It unwraps to ErrBidTooLow or ErrBidBelowIncrement.
type MinimumBidError struct {
	Err       error
	MinAmount float64
}

func (e *MinimumBidError) Error() string {
	return fmt.Sprintf("%s: minimum acceptable bid is %.2f", e.Err, e.MinAmount)
}

func (e *MinimumBidError) Unwrap() error {
	return e.Err
}
