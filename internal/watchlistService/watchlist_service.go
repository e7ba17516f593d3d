package watchlist

import (
	"auction-marketplace/internal/biddingerrors"
	"auction-marketplace/internal/lifecycle"
	model "auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
	"auction-marketplace/utils"
	"context"
	"errors"
	"fmt"
	"time"
)

// WatchlistService manages the auctions each user follows
type WatchlistService struct {
	watchDB  repository.WatchlistDB
	auctions repository.AuctionDB
	now      func() time.Time
}

// NewWatchlistService creates a new WatchlistService instance
func NewWatchlistService(watchDB repository.WatchlistDB, auctions repository.AuctionDB) *WatchlistService {
	return &WatchlistService{
		watchDB:  watchDB,
		auctions: auctions,
		now:      time.Now,
	}
}

// Add starts watching an auction. Watching the same auction twice fails.
func (s *WatchlistService) Add(ctx context.Context, userID, auctionID int64) (model.WatchlistEntry, error) {
	if userID <= 0 || auctionID <= 0 {
		return model.WatchlistEntry{}, fmt.Errorf("service: %w - missing user or auction id", biddingerrors.ErrInvalidBid)
	}

	if _, err := s.auctions.GetAuction(ctx, auctionID); err != nil {
		return model.WatchlistEntry{}, fmt.Errorf("service: failed to watch auction %d: %w", auctionID, err)
	}

	entry, err := s.watchDB.AddWatchlistEntry(ctx, model.WatchlistEntry{
		UserID:    userID,
		AuctionID: auctionID,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return model.WatchlistEntry{}, fmt.Errorf("service: failed to watch auction %d: %w", auctionID, err)
	}
	return entry, nil
}

// List returns a user's watched auctions, newest first
func (s *WatchlistService) List(ctx context.Context, userID int64) ([]model.WatchedAuction, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("service: %w - invalid user id", biddingerrors.ErrInvalidBid)
	}

	entries, err := s.watchDB.GetWatchlistByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get watchlist for user %d: %w", userID, err)
	}

	now := s.now()
	watched := make([]model.WatchedAuction, 0, len(entries))
	for _, entry := range entries {
		auction, err := s.auctions.GetAuction(ctx, entry.AuctionID)
		if err != nil {
			// deleted between the two reads
			if errors.Is(err, biddingerrors.ErrAuctionNotFound) {
				utils.Debug("skipping watchlist entry for missing auction", map[string]any{
					"user_id":    userID,
					"auction_id": entry.AuctionID,
				})
				continue
			}
			return nil, fmt.Errorf("service: failed to get watched auction %d: %w", entry.AuctionID, err)
		}
		auction.Status = lifecycle.EffectiveStatus(auction, now)
		watched = append(watched, model.WatchedAuction{WatchlistEntry: entry, Auction: auction})
	}
	return watched, nil
}

// Remove stops watching an auction
func (s *WatchlistService) Remove(ctx context.Context, userID, auctionID int64) error {
	if userID <= 0 || auctionID <= 0 {
		return fmt.Errorf("service: %w - missing user or auction id", biddingerrors.ErrInvalidBid)
	}

	if err := s.watchDB.RemoveWatchlistEntry(ctx, userID, auctionID); err != nil {
		return fmt.Errorf("service: failed to unwatch auction %d: %w", auctionID, err)
	}
	return nil
}
