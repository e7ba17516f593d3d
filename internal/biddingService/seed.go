package bidding

import (
	model "auction-marketplace/internal/models"
	"context"
	"fmt"
	"time"
)

// demoSellerID owns the demo listings
const demoSellerID int64 = 2

const day = 24 * time.Hour

// demoAuctions returns the demo catalogue relative to now
func demoAuctions(now time.Time) []model.CreateAuctionRequest {
	return []model.CreateAuctionRequest{
		{
			Title:        "Vintage Camera Collection",
			Description:  "A rare collection of vintage cameras from the 1950s. Includes 5 cameras in working condition with original cases and manuals.",
			SellerID:     demoSellerID,
			CategoryID:   1,
			InitialPrice: 250,
			Increment:    10,
			AuctionType:  model.AuctionTraditional,
			StartDate:    now.Add(-day),
			EndDate:      now.Add(6 * day),
		},
		{
			Title:        "Limited Edition Comic Book Set",
			Description:  "Complete set of limited edition comic books from the early 2000s. Mint condition and never opened.",
			SellerID:     demoSellerID,
			CategoryID:   2,
			InitialPrice: 500,
			Increment:    25,
			AuctionType:  model.AuctionTraditional,
			StartDate:    now.Add(-2 * day),
			EndDate:      now.Add(5 * day),
		},
		{
			Title:        "Original Abstract Painting",
			Description:  "Original abstract painting by an emerging artist. Acrylic on canvas, signed, with certificate of authenticity.",
			SellerID:     demoSellerID,
			CategoryID:   3,
			InitialPrice: 1200,
			Increment:    50,
			AuctionType:  model.AuctionTraditional,
			StartDate:    now.Add(-3 * day),
			EndDate:      now.Add(4 * day),
		},
		{
			Title:        "Vintage Gold Watch",
			Description:  "Elegant vintage gold watch from the 1960s. Recently serviced, includes original box and papers.",
			SellerID:     demoSellerID,
			CategoryID:   4,
			InitialPrice: 800,
			Increment:    25,
			AuctionType:  model.AuctionTraditional,
			StartDate:    now.Add(day),
			EndDate:      now.Add(8 * day),
		},
	}
}

// SeedDemoAuctions lists the demo auctions when the store is empty.
// It returns how many auctions were created.
func (s *BiddingService) SeedDemoAuctions(ctx context.Context) (int, error) {
	existing, err := s.repo.ListAuctions(ctx, model.AuctionFilter{})
	if err != nil {
		return 0, fmt.Errorf("service: failed to check existing auctions: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	created := 0
	for _, req := range demoAuctions(s.now()) {
		if _, err := s.CreateAuction(ctx, req); err != nil {
			return created, fmt.Errorf("service: failed to seed %q: %w", req.Title, err)
		}
		created++
	}
	return created, nil
}
