package lifecycle

import (
	"errors"
	"testing"
	"time"

	"auction-marketplace/internal/biddingerrors"
	"auction-marketplace/internal/models"

	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func openAuction() models.Auction {
	return models.Auction{
		ID:           1,
		SellerID:     10,
		CurrentPrice: 250,
		Increment:    10,
		AuctionType:  models.AuctionTraditional,
		StartDate:    start,
		EndDate:      end,
		Status:       models.StatusActive,
	}
}

func TestRuleFor(t *testing.T) {
	t.Parallel()

	_, err := RuleFor(models.AuctionTraditional)
	require.NoError(t, err)

	_, err = RuleFor("")
	require.NoError(t, err)

	for _, typ := range []models.AuctionType{models.AuctionReverse, models.AuctionSealed, "dutch"} {
		_, err := RuleFor(typ)
		require.True(t, errors.Is(err, biddingerrors.ErrUnsupportedAuctionType), "type %s", typ)
	}
}

func TestApplyBid(t *testing.T) {
	t.Parallel()

	during := start.Add(time.Hour)

	tests := []struct {
		name          string
		auction       func() models.Auction
		req           models.BidRequest
		now           time.Time
		expectedError error
		minAmount     float64
	}{
		{
			name:    "accepted_at_minimum",
			auction: openAuction,
			req:     models.BidRequest{AuctionID: 1, UserID: 20, Amount: 260},
			now:     during,
		},
		{
			name: "accepted_early_on_upcoming",
			auction: func() models.Auction {
				a := openAuction()
				a.Status = models.StatusUpcoming
				return a
			},
			req: models.BidRequest{AuctionID: 1, UserID: 20, Amount: 300},
			now: start.Add(-time.Hour),
		},
		{
			name:          "ended_by_schedule",
			auction:       openAuction,
			req:           models.BidRequest{AuctionID: 1, UserID: 20, Amount: 300},
			now:           end,
			expectedError: biddingerrors.ErrAuctionClosed,
		},
		{
			name: "sold",
			auction: func() models.Auction {
				a := openAuction()
				a.IsSold = true
				return a
			},
			req:           models.BidRequest{AuctionID: 1, UserID: 20, Amount: 300},
			now:           during,
			expectedError: biddingerrors.ErrAuctionClosed,
		},
		{
			name:          "seller_bidding",
			auction:       openAuction,
			req:           models.BidRequest{AuctionID: 1, UserID: 10, Amount: 300},
			now:           during,
			expectedError: biddingerrors.ErrSelfBid,
		},
		{
			name: "sealed_auction",
			auction: func() models.Auction {
				a := openAuction()
				a.AuctionType = models.AuctionSealed
				return a
			},
			req:           models.BidRequest{AuctionID: 1, UserID: 20, Amount: 300},
			now:           during,
			expectedError: biddingerrors.ErrUnsupportedAuctionType,
		},
		{
			name:          "equal_to_current",
			auction:       openAuction,
			req:           models.BidRequest{AuctionID: 1, UserID: 20, Amount: 250},
			now:           during,
			expectedError: biddingerrors.ErrBidTooLow,
			minAmount:     260,
		},
		{
			name:          "under_increment",
			auction:       openAuction,
			req:           models.BidRequest{AuctionID: 1, UserID: 20, Amount: 259.99},
			now:           during,
			expectedError: biddingerrors.ErrBidBelowIncrement,
			minAmount:     260,
		},
		{
			name:          "sub_cent_amount_at_rounded_floor",
			auction:       openAuction,
			req:           models.BidRequest{AuctionID: 1, UserID: 20, Amount: 259.995},
			now:           during,
			expectedError: biddingerrors.ErrInvalidBid,
		},
		{
			name:          "sub_cent_auto_bid_ceiling",
			auction:       openAuction,
			req:           models.BidRequest{AuctionID: 1, UserID: 20, Amount: 260, IsAutoBid: true, MaxAmount: floatPtr(400.005)},
			now:           during,
			expectedError: biddingerrors.ErrInvalidBid,
		},
		{
			name:          "auto_bid_without_max",
			auction:       openAuction,
			req:           models.BidRequest{AuctionID: 1, UserID: 20, Amount: 260, IsAutoBid: true},
			now:           during,
			expectedError: biddingerrors.ErrInvalidAutoBid,
		},
		{
			name:          "auto_bid_max_not_above_amount",
			auction:       openAuction,
			req:           models.BidRequest{AuctionID: 1, UserID: 20, Amount: 260, IsAutoBid: true, MaxAmount: floatPtr(260)},
			now:           during,
			expectedError: biddingerrors.ErrInvalidAutoBid,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			snapshot := tc.auction()
			before := snapshot

			updated, bid, err := ApplyBid(snapshot, tc.req, tc.now)
			require.Equal(t, before, snapshot)

			if tc.expectedError != nil {
				require.True(t, errors.Is(err, tc.expectedError), "expected error: %v, got: %v", tc.expectedError, err)
				if tc.minAmount > 0 {
					var minErr *biddingerrors.MinimumBidError
					require.True(t, errors.As(err, &minErr))
					require.Equal(t, tc.minAmount, minErr.MinAmount)
				}
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.req.Amount, updated.CurrentPrice)
			require.Equal(t, snapshot.BidCount+1, updated.BidCount)
			require.Equal(t, tc.req.UserID, bid.UserID)
			require.Equal(t, snapshot.ID, bid.AuctionID)
			require.Equal(t, tc.now.UTC(), bid.CreatedAt)
		})
	}
}

func TestApplyBid_AutoBidKeepsCeiling(t *testing.T) {
	t.Parallel()

	_, bid, err := ApplyBid(openAuction(), models.BidRequest{
		AuctionID: 1, UserID: 20, Amount: 260, IsAutoBid: true, MaxAmount: floatPtr(400),
	}, start.Add(time.Hour))
	require.NoError(t, err)
	require.True(t, bid.IsAutoBid)
	require.NotNil(t, bid.MaxAmount)
	require.Equal(t, 400.0, *bid.MaxAmount)

	_, bid, err = ApplyBid(openAuction(), models.BidRequest{
		AuctionID: 1, UserID: 20, Amount: 260, MaxAmount: floatPtr(400),
	}, start.Add(time.Hour))
	require.NoError(t, err)
	require.Nil(t, bid.MaxAmount)
}

func TestApplyBid_FlipsStaleUpcoming(t *testing.T) {
	t.Parallel()

	a := openAuction()
	a.Status = models.StatusUpcoming

	updated, _, err := ApplyBid(a, models.BidRequest{AuctionID: 1, UserID: 20, Amount: 260}, start.Add(time.Minute))
	require.NoError(t, err)
	require.Equal(t, models.StatusActive, updated.Status)

	updated, _, err = ApplyBid(a, models.BidRequest{AuctionID: 1, UserID: 20, Amount: 260}, start.Add(-time.Minute))
	require.NoError(t, err)
	require.Equal(t, models.StatusUpcoming, updated.Status)
}
