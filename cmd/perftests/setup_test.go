package perftests

import (
	"context"
	"fmt"
	"testing"
	"time"

	bidding "auction-marketplace/internal/biddingService"
	"auction-marketplace/internal/cache"
	model "auction-marketplace/internal/models"
	repository "auction-marketplace/internal/repository"
)

const (
	benchSellerID = 1
	startingPrice = 100
)

// setupAuctions creates a bidding service over numAuctions open auctions with
// a one-unit increment and returns their ids
func setupAuctions(tb testing.TB, numAuctions int, withCache bool) (*bidding.BiddingService, []int64) {
	tb.Helper()

	repo := repository.NewMemoryRepo()
	opts := []bidding.Option{}
	if withCache {
		opts = append(opts, bidding.WithBidCache(cache.NewBidCache(64, time.Minute)))
	}
	svc := bidding.NewBiddingService(repo, opts...)

	now := time.Now()
	ids := make([]int64, 0, numAuctions)
	for i := 0; i < numAuctions; i++ {
		a, err := svc.CreateAuction(context.Background(), model.CreateAuctionRequest{
			Title:        fmt.Sprintf("Benchmark lot %d", i),
			Description:  "Load test auction",
			SellerID:     benchSellerID,
			CategoryID:   1,
			InitialPrice: startingPrice,
			Increment:    1,
			StartDate:    now.Add(-time.Hour),
			EndDate:      now.Add(24 * time.Hour),
		})
		if err != nil {
			tb.Fatalf("failed to create auction: %v", err)
		}
		ids = append(ids, a.ID)
	}
	return svc, ids
}

// seedBids places n ascending bids on an auction from distinct users
func seedBids(tb testing.TB, svc *bidding.BiddingService, auctionID int64, n int) float64 {
	tb.Helper()

	amount := float64(startingPrice)
	for j := 0; j < n; j++ {
		amount += 2
		if _, _, err := svc.PlaceBid(context.Background(), model.BidRequest{
			AuctionID: auctionID,
			UserID:    int64(1000 + j),
			Amount:    amount,
		}); err != nil {
			tb.Fatalf("failed to seed bid: %v", err)
		}
	}
	return amount
}
