package models

import "time"

// Status is the lifecycle phase of an auction
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusActive   Status = "active"
	StatusEnded    Status = "ended"
	StatusSold     Status = "sold"
)

// IsValid reports whether s is one of the known statuses
func (s Status) IsValid() bool {
	switch s {
	case StatusUpcoming, StatusActive, StatusEnded, StatusSold:
		return true
	}
	return false
}

// AuctionType selects the bidding rule applied to an auction
type AuctionType string

const (
	AuctionTraditional AuctionType = "traditional"
	AuctionReverse     AuctionType = "reverse"
	AuctionSealed      AuctionType = "sealed"
)

// IsValid reports whether t is one of the known auction types
func (t AuctionType) IsValid() bool {
	switch t {
	case AuctionTraditional, AuctionReverse, AuctionSealed:
		return true
	}
	return false
}

// Auction represents an item listed for time-boxed bidding
type Auction struct {
	ID           int64       `json:"id" gorm:"primaryKey;autoIncrement"`
	Title        string      `json:"title" gorm:"not null"`
	Description  string      `json:"description"`
	ImageURL     string      `json:"imageUrl"`
	SellerID     int64       `json:"sellerId" gorm:"not null;index"`
	CategoryID   int64       `json:"categoryId" gorm:"not null;index"`
	InitialPrice float64     `json:"initialPrice" gorm:"not null"`
	CurrentPrice float64     `json:"currentPrice" gorm:"not null"`
	Increment    float64     `json:"increment" gorm:"not null"`
	AuctionType  AuctionType `json:"auctionType" gorm:"type:text;not null"`
	StartDate    time.Time   `json:"startDate" gorm:"not null"`
	EndDate      time.Time   `json:"endDate" gorm:"not null"`
	Status       Status      `json:"status" gorm:"type:text;not null"`
	BidCount     int         `json:"bidCount" gorm:"not null"`
	IsSold       bool        `json:"isSold" gorm:"not null"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// Bid represents a user's offer on an auction. Bids are never updated.
type Bid struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	AuctionID int64     `json:"auctionId" gorm:"not null;index"`
	UserID    int64     `json:"userId" gorm:"not null;index"`
	Amount    float64   `json:"amount" gorm:"not null"`
	IsAutoBid bool      `json:"isAutoBid" gorm:"not null"`
	MaxAmount *float64  `json:"maxAmount,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// WatchlistEntry records a user following an auction
type WatchlistEntry struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    int64     `json:"userId" gorm:"not null;uniqueIndex:idx_watchlist_user_auction"`
	AuctionID int64     `json:"auctionId" gorm:"not null;uniqueIndex:idx_watchlist_user_auction"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName keeps the table name aligned with the migrations
func (WatchlistEntry) TableName() string { return "watchlists" }

// WatchedAuction pairs a watchlist entry with the auction it points at
type WatchedAuction struct {
	WatchlistEntry
	Auction Auction `json:"auction"`
}

// AuctionFilter narrows auction listings. Nil fields are ignored; set fields are ANDed.
type AuctionFilter struct {
	CategoryID *int64
	SellerID   *int64
	Status     *Status
}

// BidRequest carries a proposed bid into the bidding service
type BidRequest struct {
	AuctionID int64
	UserID    int64
	Amount    float64
	IsAutoBid bool
	MaxAmount *float64
	Notes     string
}

// CreateAuctionRequest carries a seller's new listing
type CreateAuctionRequest struct {
	Title        string
	Description  string
	ImageURL     string
	SellerID     int64
	CategoryID   int64
	InitialPrice float64
	Increment    float64
	AuctionType  AuctionType
	StartDate    time.Time
	EndDate      time.Time
}
