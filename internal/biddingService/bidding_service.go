package bidding

import (
	"auction-marketplace/internal/biddingerrors"
	"auction-marketplace/internal/cache"
	"auction-marketplace/internal/events"
	"auction-marketplace/internal/lifecycle"
	model "auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
	"auction-marketplace/utils"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const maxNotesLength = 1000

// BiddingService defines the business logic for auction bidding
type BiddingService struct {
	repo      repository.AuctionDB
	bidCache  *cache.BidCache
	publisher events.Publisher
	now       func() time.Time
}

// Option customizes a BiddingService
type Option func(*BiddingService)

// WithClock replaces the time source used for status derivation and bid timestamps
func WithClock(now func() time.Time) Option {
	return func(s *BiddingService) { s.now = now }
}

// WithBidCache serves auction bid lists from c
func WithBidCache(c *cache.BidCache) Option {
	return func(s *BiddingService) { s.bidCache = c }
}

// WithPublisher emits a bid.placed event through p after every accepted bid
func WithPublisher(p events.Publisher) Option {
	return func(s *BiddingService) { s.publisher = p }
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(repo repository.AuctionDB, opts ...Option) *BiddingService {
	s := &BiddingService{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceBid validates a bid and applies it to the auction atomically.
// It returns the stored bid and the auction as updated by it.
func (s *BiddingService) PlaceBid(ctx context.Context, req model.BidRequest) (model.Bid, model.Auction, error) {
	if err := validateBidRequest(req); err != nil {
		return model.Bid{}, model.Auction{}, err
	}

	auction, bid, err := s.repo.ApplyBid(ctx, req.AuctionID, func(current model.Auction) (model.Auction, model.Bid, error) {
		return lifecycle.ApplyBid(current, req, s.now())
	})
	if err != nil {
		return model.Bid{}, model.Auction{}, fmt.Errorf("service: bid on auction %d by user %d rejected: %w", req.AuctionID, req.UserID, err)
	}

	if s.bidCache != nil {
		s.bidCache.Invalidate(auction.ID)
	}
	if s.publisher != nil {
		if err := s.publisher.PublishBidPlaced(ctx, events.NewBidPlaced(bid, auction)); err != nil {
			utils.Warn("failed to publish bid event", map[string]any{
				"bid_id":     bid.ID,
				"auction_id": auction.ID,
				"error":      err.Error(),
			})
		}
	}

	return bid, auction, nil
}

// validateBidRequest checks input shape before any auction is loaded
func validateBidRequest(req model.BidRequest) error {
	if req.AuctionID <= 0 || req.UserID <= 0 {
		return fmt.Errorf("service: %w - missing auction or user id", biddingerrors.ErrInvalidBid)
	}
	if req.Amount <= 0 {
		return fmt.Errorf("service: %w - non-positive bid amount", biddingerrors.ErrInvalidBid)
	}
	if !lifecycle.IsCents(req.Amount) || (req.MaxAmount != nil && !lifecycle.IsCents(*req.MaxAmount)) {
		return fmt.Errorf("service: %w - amounts must be whole cents", biddingerrors.ErrInvalidBid)
	}
	if len(req.Notes) > maxNotesLength {
		return fmt.Errorf("service: %w - notes longer than %d characters", biddingerrors.ErrInvalidBid, maxNotesLength)
	}
	return nil
}

// GetBidsForAuction returns all bids for an auction, leading bid first
func (s *BiddingService) GetBidsForAuction(ctx context.Context, auctionID int64) ([]model.Bid, error) {
	if auctionID <= 0 {
		return nil, fmt.Errorf("service: %w - invalid auction id", biddingerrors.ErrInvalidBid)
	}

	auction, err := s.repo.GetAuction(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for auction %d: %w", auctionID, err)
	}

	// bids are append-only, so a cached list with the current count is complete
	if s.bidCache != nil {
		if bids, ok := s.bidCache.Get(auctionID); ok && len(bids) == auction.BidCount {
			return bids, nil
		}
	}

	bids, err := s.repo.GetBidsByAuction(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for auction %d: %w", auctionID, err)
	}

	if s.bidCache != nil && len(bids) == auction.BidCount {
		if err := s.bidCache.Set(auctionID, bids); err != nil {
			utils.Warn("failed to cache bids", map[string]any{"auction_id": auctionID, "error": err.Error()})
		}
	}

	return bids, nil
}

// GetWinningBid returns the leading bid for an auction
func (s *BiddingService) GetWinningBid(ctx context.Context, auctionID int64) (model.Bid, error) {
	bids, err := s.GetBidsForAuction(ctx, auctionID)
	if err != nil {
		return model.Bid{}, err
	}
	if len(bids) == 0 {
		return model.Bid{}, fmt.Errorf("service: auction %d: %w", auctionID, biddingerrors.ErrNoBids)
	}
	return bids[0], nil
}

// GetBidsForUser returns all bids a user has placed, most recent first
func (s *BiddingService) GetBidsForUser(ctx context.Context, userID int64) ([]model.Bid, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("service: %w - invalid user id", biddingerrors.ErrInvalidBid)
	}

	bids, err := s.repo.GetBidsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for user %d: %w", userID, err)
	}
	return bids, nil
}

// GetAuction returns an auction with its status as of now
func (s *BiddingService) GetAuction(ctx context.Context, id int64) (model.Auction, error) {
	auction, err := s.repo.GetAuction(ctx, id)
	if err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to get auction %d: %w", id, err)
	}
	auction.Status = lifecycle.EffectiveStatus(auction, s.now())
	return auction, nil
}

// ListAuctions returns auctions matching every filter that is set
func (s *BiddingService) ListAuctions(ctx context.Context, filter model.AuctionFilter) ([]model.Auction, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, fmt.Errorf("service: %w - unknown status %q", biddingerrors.ErrInvalidAuction, *filter.Status)
	}

	storeFilter := filter
	storeFilter.Status = nil
	auctions, err := s.repo.ListAuctions(ctx, storeFilter)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list auctions: %w", err)
	}

	now := s.now()
	result := make([]model.Auction, 0, len(auctions))
	for _, a := range auctions {
		a.Status = lifecycle.EffectiveStatus(a, now)
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

// CreateAuction lists a new auction for a seller
func (s *BiddingService) CreateAuction(ctx context.Context, req model.CreateAuctionRequest) (model.Auction, error) {
	now := s.now()
	if err := validateCreateAuction(req, now); err != nil {
		return model.Auction{}, err
	}

	auctionType := req.AuctionType
	if auctionType == "" {
		auctionType = model.AuctionTraditional
	}

	auction, err := s.repo.CreateAuction(ctx, model.Auction{
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		SellerID:     req.SellerID,
		CategoryID:   req.CategoryID,
		InitialPrice: req.InitialPrice,
		CurrentPrice: req.InitialPrice,
		Increment:    req.Increment,
		AuctionType:  auctionType,
		StartDate:    req.StartDate.UTC(),
		EndDate:      req.EndDate.UTC(),
		Status:       lifecycle.DeriveStatus(now, req.StartDate, req.EndDate),
		CreatedAt:    now.UTC(),
	})
	if err != nil {
		return model.Auction{}, fmt.Errorf("service: failed to create auction: %w", err)
	}
	return auction, nil
}

func validateCreateAuction(req model.CreateAuctionRequest, now time.Time) error {
	switch {
	case strings.TrimSpace(req.Title) == "":
		return fmt.Errorf("service: %w - missing title", biddingerrors.ErrInvalidAuction)
	case req.SellerID <= 0 || req.CategoryID <= 0:
		return fmt.Errorf("service: %w - missing seller or category", biddingerrors.ErrInvalidAuction)
	case req.InitialPrice <= 0:
		return fmt.Errorf("service: %w - initial price must be positive", biddingerrors.ErrInvalidAuction)
	case req.Increment <= 0:
		return fmt.Errorf("service: %w - increment must be positive", biddingerrors.ErrInvalidAuction)
	case !lifecycle.IsCents(req.InitialPrice) || !lifecycle.IsCents(req.Increment):
		return fmt.Errorf("service: %w - prices must be whole cents", biddingerrors.ErrInvalidAuction)
	case req.AuctionType != "" && !req.AuctionType.IsValid():
		return fmt.Errorf("service: %w - unknown auction type %q", biddingerrors.ErrInvalidAuction, req.AuctionType)
	case req.StartDate.IsZero() || req.EndDate.IsZero():
		return fmt.Errorf("service: %w - missing schedule", biddingerrors.ErrInvalidAuction)
	case !req.EndDate.After(req.StartDate):
		return fmt.Errorf("service: %w - end date must be after start date", biddingerrors.ErrInvalidAuction)
	case !req.EndDate.After(now):
		return fmt.Errorf("service: %w - end date is in the past", biddingerrors.ErrInvalidAuction)
	}
	return nil
}

// DeleteAuction removes an auction on behalf of its seller or an admin.
// Auctions that have received bids cannot be deleted.
func (s *BiddingService) DeleteAuction(ctx context.Context, id, requesterID int64, isAdmin bool) error {
	auction, err := s.repo.GetAuction(ctx, id)
	if err != nil {
		return fmt.Errorf("service: failed to delete auction %d: %w", id, err)
	}
	if auction.SellerID != requesterID && !isAdmin {
		return fmt.Errorf("service: user %d deleting auction %d: %w", requesterID, id, biddingerrors.ErrForbidden)
	}

	if err := s.repo.DeleteAuction(ctx, id); err != nil {
		if errors.Is(err, biddingerrors.ErrHasBids) {
			return fmt.Errorf("service: auction %d cannot be deleted: %w", id, err)
		}
		return fmt.Errorf("service: failed to delete auction %d: %w", id, err)
	}

	if s.bidCache != nil {
		s.bidCache.Invalidate(id)
	}
	return nil
}
