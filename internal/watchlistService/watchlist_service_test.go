package watchlist

import (
	"auction-marketplace/internal/biddingerrors"
	model "auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func seedAuction(t *testing.T, repo *repository.MemoryRepo, start, end time.Time) model.Auction {
	t.Helper()

	a, err := repo.CreateAuction(context.Background(), model.Auction{
		Title:        "Record player",
		SellerID:     10,
		CategoryID:   3,
		InitialPrice: 1200,
		CurrentPrice: 1200,
		Increment:    50,
		AuctionType:  model.AuctionTraditional,
		StartDate:    start,
		EndDate:      end,
		Status:       model.StatusActive,
	})
	require.NoError(t, err)
	return a
}

func TestWatchlistService_AddListRemove(t *testing.T) {
	repo := repository.NewMemoryRepo()
	service := NewWatchlistService(repo, repo)
	ctx := context.Background()

	now := time.Now()
	first := seedAuction(t, repo, now.Add(-time.Hour), now.Add(time.Hour))
	second := seedAuction(t, repo, now.Add(-2*time.Hour), now.Add(-time.Hour))

	_, err := service.Add(ctx, 20, first.ID)
	require.NoError(t, err)
	_, err = service.Add(ctx, 20, second.ID)
	require.NoError(t, err)

	watched, err := service.List(ctx, 20)
	require.NoError(t, err)
	require.Len(t, watched, 2)

	byAuction := map[int64]model.WatchedAuction{}
	for _, w := range watched {
		require.Equal(t, w.AuctionID, w.Auction.ID)
		byAuction[w.AuctionID] = w
	}
	require.Equal(t, model.StatusActive, byAuction[first.ID].Auction.Status)
	// stored active, but its schedule has ended
	require.Equal(t, model.StatusEnded, byAuction[second.ID].Auction.Status)

	require.NoError(t, service.Remove(ctx, 20, first.ID))

	watched, err = service.List(ctx, 20)
	require.NoError(t, err)
	require.Len(t, watched, 1)
	require.Equal(t, second.ID, watched[0].AuctionID)

	// other users are unaffected
	watched, err = service.List(ctx, 21)
	require.NoError(t, err)
	require.Empty(t, watched)
}

func TestWatchlistService_Add(t *testing.T) {
	repo := repository.NewMemoryRepo()
	service := NewWatchlistService(repo, repo)
	now := time.Now()
	auction := seedAuction(t, repo, now.Add(-time.Hour), now.Add(time.Hour))

	_, err := service.Add(context.Background(), 30, auction.ID)
	require.NoError(t, err)

	tests := []struct {
		name          string
		userID        int64
		auctionID     int64
		expectedError error
	}{
		{name: "already_watching", userID: 30, auctionID: auction.ID, expectedError: biddingerrors.ErrAlreadyWatching},
		{name: "missing_auction", userID: 30, auctionID: 999, expectedError: biddingerrors.ErrAuctionNotFound},
		{name: "invalid_user", userID: 0, auctionID: auction.ID, expectedError: biddingerrors.ErrInvalidBid},
		{name: "invalid_auction", userID: 30, auctionID: 0, expectedError: biddingerrors.ErrInvalidBid},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := service.Add(context.Background(), tc.userID, tc.auctionID)
			require.True(t, errors.Is(err, tc.expectedError), "expected error: %v, got: %v", tc.expectedError, err)
		})
	}
}

func TestWatchlistService_RemoveMissingEntry(t *testing.T) {
	repo := repository.NewMemoryRepo()
	service := NewWatchlistService(repo, repo)

	err := service.Remove(context.Background(), 20, 1)
	require.True(t, errors.Is(err, biddingerrors.ErrWatchlistEntryNotFound))
}

func TestWatchlistService_ListSkipsDeletedAuctions(t *testing.T) {
	ctrl := gomock.NewController(t)
	watchDB := repository.NewMockWatchlistDB(ctrl)
	auctions := repository.NewMockAuctionDB(ctrl)
	service := NewWatchlistService(watchDB, auctions)

	watchDB.EXPECT().GetWatchlistByUser(gomock.Any(), int64(20)).Return([]model.WatchlistEntry{
		{ID: 2, UserID: 20, AuctionID: 5},
		{ID: 1, UserID: 20, AuctionID: 4},
	}, nil)
	auctions.EXPECT().GetAuction(gomock.Any(), int64(5)).Return(model.Auction{}, biddingerrors.ErrAuctionNotFound)
	auctions.EXPECT().GetAuction(gomock.Any(), int64(4)).Return(model.Auction{ID: 4, Status: model.StatusSold, IsSold: true}, nil)

	watched, err := service.List(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, watched, 1)
	require.Equal(t, int64(4), watched[0].Auction.ID)
	require.Equal(t, model.StatusSold, watched[0].Auction.Status)
}

func TestWatchlistService_ListStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	watchDB := repository.NewMockWatchlistDB(ctrl)
	auctions := repository.NewMockAuctionDB(ctrl)
	service := NewWatchlistService(watchDB, auctions)

	watchDB.EXPECT().GetWatchlistByUser(gomock.Any(), int64(20)).Return(nil, errors.New("db failure"))

	_, err := service.List(context.Background(), 20)
	require.Error(t, err)
}
