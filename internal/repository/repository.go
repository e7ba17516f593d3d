package repository

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

import (
	"auction-marketplace/internal/biddingerrors"
	model "auction-marketplace/internal/models"
	"context"
	"fmt"
	"sync"
	"time"
)

// BidFunc validates a proposed bid against the current auction and returns the
// updated auction plus the bid to persist. Returning an error aborts with no writes.
type BidFunc func(current model.Auction) (model.Auction, model.Bid, error)

// AuctionDB defines the auction and bid storage interface for the marketplace
type AuctionDB interface {
	CreateAuction(ctx context.Context, auction model.Auction) (model.Auction, error)
	GetAuction(ctx context.Context, id int64) (model.Auction, error)
	// ListAuctions applies the category and seller filters; status is left to the caller.
	ListAuctions(ctx context.Context, filter model.AuctionFilter) ([]model.Auction, error)
	DeleteAuction(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, from, to model.Status) error
	// ApplyBid runs fn and persists its result as one critical section per auction.
	ApplyBid(ctx context.Context, auctionID int64, fn BidFunc) (model.Auction, model.Bid, error)
	GetBidsByAuction(ctx context.Context, auctionID int64) ([]model.Bid, error)
	GetBidsByUser(ctx context.Context, userID int64) ([]model.Bid, error)
}

// WatchlistDB defines watchlist storage
type WatchlistDB interface {
	AddWatchlistEntry(ctx context.Context, entry model.WatchlistEntry) (model.WatchlistEntry, error)
	GetWatchlistByUser(ctx context.Context, userID int64) ([]model.WatchlistEntry, error)
	RemoveWatchlistEntry(ctx context.Context, userID, auctionID int64) error
}

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB and WatchlistDB
type MemoryRepo struct {
	mu        sync.RWMutex
	auctions  map[int64]model.Auction          // key: auctionID -> value: auction
	bids      map[int64][]model.Bid            // key: auctionID -> value: bids in insertion order
	userBids  map[int64][]model.Bid            // key: userID -> value: bids placed by the user
	watchlist map[int64][]model.WatchlistEntry // key: userID -> value: watched auctions

	nextAuctionID int64
	nextBidID     int64
	nextWatchID   int64

	// per-auction locks serialize bid application without blocking other auctions
	auctionLocks sync.Map // key: auctionID -> value: *sync.Mutex
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		auctions:  make(map[int64]model.Auction),
		bids:      make(map[int64][]model.Bid),
		userBids:  make(map[int64][]model.Bid),
		watchlist: make(map[int64][]model.WatchlistEntry),
	}
}

// lockAuction takes the per-auction lock of an existing auction. Unknown ids
// get no lock entry. Auction ids are never reused, so callers that find the
// auction gone once the lock is held drop the entry with releaseAuctionLock.
func (r *MemoryRepo) lockAuction(id int64) (func(), bool) {
	r.mu.RLock()
	_, ok := r.auctions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}

	l, _ := r.auctionLocks.LoadOrStore(id, &sync.Mutex{})
	mu := l.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock, true
}

// releaseAuctionLock forgets the lock of a deleted auction. Waiters still
// holding the old mutex find the auction gone and leave.
func (r *MemoryRepo) releaseAuctionLock(id int64) {
	r.auctionLocks.Delete(id)
}

// CreateAuction stores a new auction and assigns its id
func (r *MemoryRepo) CreateAuction(ctx context.Context, auction model.Auction) (model.Auction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextAuctionID++
	auction.ID = r.nextAuctionID
	if auction.CreatedAt.IsZero() {
		auction.CreatedAt = time.Now().UTC()
	}
	r.auctions[auction.ID] = auction
	return auction, nil
}

// GetAuction returns the auction with the given id
func (r *MemoryRepo) GetAuction(ctx context.Context, id int64) (model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	auction, ok := r.auctions[id]
	if !ok {
		return model.Auction{}, fmt.Errorf("get auction %d: %w", id, biddingerrors.ErrAuctionNotFound)
	}
	return auction, nil
}

// ListAuctions returns auctions matching the category and seller filters, ordered by id
func (r *MemoryRepo) ListAuctions(ctx context.Context, filter model.AuctionFilter) ([]model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	auctions := make([]model.Auction, 0, len(r.auctions))
	for _, a := range r.auctions {
		if filter.CategoryID != nil && a.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.SellerID != nil && a.SellerID != *filter.SellerID {
			continue
		}
		auctions = append(auctions, a)
	}
	sortAuctionsByID(auctions)
	return auctions, nil
}

// DeleteAuction removes an auction that has no bids, along with its watchlist entries
func (r *MemoryRepo) DeleteAuction(ctx context.Context, id int64) error {
	unlock, ok := r.lockAuction(id)
	if !ok {
		return fmt.Errorf("delete auction %d: %w", id, biddingerrors.ErrAuctionNotFound)
	}
	defer unlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.auctions[id]; !ok {
		r.releaseAuctionLock(id)
		return fmt.Errorf("delete auction %d: %w", id, biddingerrors.ErrAuctionNotFound)
	}
	if len(r.bids[id]) > 0 {
		return fmt.Errorf("delete auction %d: %w", id, biddingerrors.ErrHasBids)
	}

	delete(r.auctions, id)
	r.releaseAuctionLock(id)
	for userID, entries := range r.watchlist {
		kept := entries[:0]
		for _, e := range entries {
			if e.AuctionID != id {
				kept = append(kept, e)
			}
		}
		r.watchlist[userID] = kept
	}
	return nil
}

// UpdateStatus moves an auction's stored status from -> to, failing if it is no longer from
func (r *MemoryRepo) UpdateStatus(ctx context.Context, id int64, from, to model.Status) error {
	unlock, ok := r.lockAuction(id)
	if !ok {
		return fmt.Errorf("update status of auction %d: %w", id, biddingerrors.ErrAuctionNotFound)
	}
	defer unlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	auction, ok := r.auctions[id]
	if !ok {
		r.releaseAuctionLock(id)
		return fmt.Errorf("update status of auction %d: %w", id, biddingerrors.ErrAuctionNotFound)
	}
	if auction.Status != from {
		return fmt.Errorf("update status of auction %d from %s: %w", id, from, biddingerrors.ErrStatusConflict)
	}
	auction.Status = to
	r.auctions[id] = auction
	return nil
}

// ApplyBid loads the auction under its lock, runs fn and stores the outcome
func (r *MemoryRepo) ApplyBid(ctx context.Context, auctionID int64, fn BidFunc) (model.Auction, model.Bid, error) {
	unlock, ok := r.lockAuction(auctionID)
	if !ok {
		return model.Auction{}, model.Bid{}, fmt.Errorf("apply bid to auction %d: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}
	defer unlock()

	r.mu.RLock()
	current, ok := r.auctions[auctionID]
	r.mu.RUnlock()
	if !ok {
		r.releaseAuctionLock(auctionID)
		return model.Auction{}, model.Bid{}, fmt.Errorf("apply bid to auction %d: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}

	updated, bid, err := fn(current)
	if err != nil {
		return model.Auction{}, model.Bid{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextBidID++
	bid.ID = r.nextBidID
	bid.AuctionID = auctionID
	updated.ID = auctionID

	r.auctions[auctionID] = updated
	r.bids[auctionID] = append(r.bids[auctionID], bid)
	r.userBids[bid.UserID] = append(r.userBids[bid.UserID], bid)

	return updated, bid, nil
}

// GetBidsByAuction returns an auction's bids, leading bid first
func (r *MemoryRepo) GetBidsByAuction(ctx context.Context, auctionID int64) ([]model.Bid, error) {
	r.mu.RLock()
	bids := append([]model.Bid{}, r.bids[auctionID]...)
	r.mu.RUnlock()

	SortByLeading(bids)
	return bids, nil
}

// GetBidsByUser returns a user's bids, most recent first
func (r *MemoryRepo) GetBidsByUser(ctx context.Context, userID int64) ([]model.Bid, error) {
	r.mu.RLock()
	bids := append([]model.Bid{}, r.userBids[userID]...)
	r.mu.RUnlock()

	SortByRecent(bids)
	return bids, nil
}

// AddWatchlistEntry adds an auction to a user's watchlist
func (r *MemoryRepo) AddWatchlistEntry(ctx context.Context, entry model.WatchlistEntry) (model.WatchlistEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.auctions[entry.AuctionID]; !ok {
		return model.WatchlistEntry{}, fmt.Errorf("watch auction %d: %w", entry.AuctionID, biddingerrors.ErrAuctionNotFound)
	}
	for _, e := range r.watchlist[entry.UserID] {
		if e.AuctionID == entry.AuctionID {
			return model.WatchlistEntry{}, fmt.Errorf("watch auction %d for user %d: %w", entry.AuctionID, entry.UserID, biddingerrors.ErrAlreadyWatching)
		}
	}

	r.nextWatchID++
	entry.ID = r.nextWatchID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	r.watchlist[entry.UserID] = append(r.watchlist[entry.UserID], entry)
	return entry, nil
}

// GetWatchlistByUser returns a user's watchlist, newest first
func (r *MemoryRepo) GetWatchlistByUser(ctx context.Context, userID int64) ([]model.WatchlistEntry, error) {
	r.mu.RLock()
	entries := append([]model.WatchlistEntry{}, r.watchlist[userID]...)
	r.mu.RUnlock()

	sortWatchlistByRecent(entries)
	return entries, nil
}

// RemoveWatchlistEntry drops an auction from a user's watchlist
func (r *MemoryRepo) RemoveWatchlistEntry(ctx context.Context, userID, auctionID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.watchlist[userID]
	for i, e := range entries {
		if e.AuctionID == auctionID {
			r.watchlist[userID] = append(entries[:i:i], entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("unwatch auction %d for user %d: %w", auctionID, userID, biddingerrors.ErrWatchlistEntryNotFound)
}
