package lifecycle

import (
	"fmt"
	"time"

	"auction-marketplace/internal/biddingerrors"
	"auction-marketplace/internal/models"
)

// BidRule checks and applies a bid amount for one auction type.
type BidRule interface {
	// Check returns nil when amount is acceptable against the auction as it stands.
	Check(a models.Auction, amount float64) error
	// Apply moves the auction's price to reflect an accepted amount.
	Apply(a *models.Auction, amount float64)
}

// traditionalRule is the ascending-price, highest-bid-wins rule.
type traditionalRule struct{}

func (traditionalRule) Check(a models.Auction, amount float64) error {
	minAmount := MinimumNextBid(a.CurrentPrice, a.Increment)

	if !GreaterThan(amount, a.CurrentPrice) {
		return &biddingerrors.MinimumBidError{Err: biddingerrors.ErrBidTooLow, MinAmount: minAmount}
	}
	if !AtLeast(amount, minAmount) {
		return &biddingerrors.MinimumBidError{Err: biddingerrors.ErrBidBelowIncrement, MinAmount: minAmount}
	}
	return nil
}

func (traditionalRule) Apply(a *models.Auction, amount float64) {
	a.CurrentPrice = amount
}

// reverse and sealed auctions have no rule yet; bids on them are rejected.
var rules = map[models.AuctionType]BidRule{
	models.AuctionTraditional: traditionalRule{},
}

// RuleFor returns the bid rule registered for t. An empty type is traditional.
func RuleFor(t models.AuctionType) (BidRule, error) {
	if t == "" {
		t = models.AuctionTraditional
	}
	rule, ok := rules[t]
	if !ok {
		return nil, fmt.Errorf("auction type %q: %w", t, biddingerrors.ErrUnsupportedAuctionType)
	}
	return rule, nil
}

// ApplyBid validates req against a snapshot of the auction and, when accepted,
// returns the updated auction and the bid to persist. The snapshot is never
// modified; on error the caller must discard everything.
func ApplyBid(a models.Auction, req models.BidRequest, now time.Time) (models.Auction, models.Bid, error) {
	if !IsCents(req.Amount) || (req.MaxAmount != nil && !IsCents(*req.MaxAmount)) {
		return models.Auction{}, models.Bid{}, fmt.Errorf("bid of %v: %w", req.Amount, biddingerrors.ErrInvalidBid)
	}

	if status := EffectiveStatus(a, now); !CanBid(status) {
		return models.Auction{}, models.Bid{}, fmt.Errorf("auction %d is %s: %w", a.ID, status, biddingerrors.ErrAuctionClosed)
	}

	if req.UserID == a.SellerID {
		return models.Auction{}, models.Bid{}, fmt.Errorf("user %d on auction %d: %w", req.UserID, a.ID, biddingerrors.ErrSelfBid)
	}

	rule, err := RuleFor(a.AuctionType)
	if err != nil {
		return models.Auction{}, models.Bid{}, err
	}

	if err := rule.Check(a, req.Amount); err != nil {
		return models.Auction{}, models.Bid{}, err
	}

	var maxAmount *float64
	if req.IsAutoBid {
		if req.MaxAmount == nil || !GreaterThan(*req.MaxAmount, req.Amount) {
			return models.Auction{}, models.Bid{}, fmt.Errorf("bid of %.2f: %w", req.Amount, biddingerrors.ErrInvalidAutoBid)
		}
		ceiling := *req.MaxAmount
		maxAmount = &ceiling
	}

	updated := a
	rule.Apply(&updated, req.Amount)
	updated.BidCount++

	// lazy upcoming -> active transition
	if updated.Status == models.StatusUpcoming && !now.Before(updated.StartDate) {
		updated.Status = models.StatusActive
	}

	bid := models.Bid{
		AuctionID: a.ID,
		UserID:    req.UserID,
		Amount:    req.Amount,
		IsAutoBid: req.IsAutoBid,
		MaxAmount: maxAmount,
		Notes:     req.Notes,
		CreatedAt: now.UTC(),
	}

	return updated, bid, nil
}
