package cache

import (
	model "auction-marketplace/internal/models"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/coocood/freecache"
)

const keyPrefix = "auction:bids:"

// BidCache keeps the ordered bid list of each auction in an in-process
// freecache. Entries are dropped whenever a bid is accepted on the auction.
type BidCache struct {
	cache *freecache.Cache
	ttl   time.Duration
}

// NewBidCache allocates a cache of sizeMB megabytes with the given entry TTL
func NewBidCache(sizeMB int, ttl time.Duration) *BidCache {
	return &BidCache{
		cache: freecache.NewCache(sizeMB * 1024 * 1024),
		ttl:   ttl,
	}
}

func bidsKey(auctionID int64) []byte {
	return []byte(keyPrefix + strconv.FormatInt(auctionID, 10))
}

// Get returns the cached bids of an auction and whether they were present
func (c *BidCache) Get(auctionID int64) ([]model.Bid, bool) {
	raw, err := c.cache.Get(bidsKey(auctionID))
	if err != nil {
		return nil, false
	}

	var bids []model.Bid
	if err := json.Unmarshal(raw, &bids); err != nil {
		c.cache.Del(bidsKey(auctionID))
		return nil, false
	}
	return bids, true
}

// Set stores the bids of an auction
func (c *BidCache) Set(auctionID int64, bids []model.Bid) error {
	raw, err := json.Marshal(bids)
	if err != nil {
		return err
	}
	if err := c.cache.Set(bidsKey(auctionID), raw, int(c.ttl.Seconds())); err != nil {
		if errors.Is(err, freecache.ErrLargeEntry) {
			return nil
		}
		return err
	}
	return nil
}

// Invalidate drops the cached bids of an auction
func (c *BidCache) Invalidate(auctionID int64) {
	c.cache.Del(bidsKey(auctionID))
}
