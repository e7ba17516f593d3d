package repository

import (
	model "auction-marketplace/internal/models"
	"sort"
)

// SortByLeading orders bids by amount descending; equal amounts keep the
// earliest bid first, with the id as the final tie-break.
func SortByLeading(bids []model.Bid) {
	sort.SliceStable(bids, func(i, j int) bool {
		a, b := bids[i], bids[j]
		if a.Amount != b.Amount {
			return a.Amount > b.Amount
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// SortByRecent orders bids by creation time, most recent first
func SortByRecent(bids []model.Bid) {
	sort.SliceStable(bids, func(i, j int) bool {
		a, b := bids[i], bids[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}

func sortAuctionsByID(auctions []model.Auction) {
	sort.Slice(auctions, func(i, j int) bool { return auctions[i].ID < auctions[j].ID })
}

func sortWatchlistByRecent(entries []model.WatchlistEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].ID > entries[j].ID
	})
}
