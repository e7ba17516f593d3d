package helpers

import (
	model "auction-marketplace/internal/models"
	"time"
)

// Request/Response DTOs

// PlaceBidRequest is the body of POST /bids. The bidder comes from the bearer token.
type PlaceBidRequest struct {
	ProductID int64    `json:"productId" binding:"required,gt=0"`
	Amount    float64  `json:"amount" binding:"required,gt=0"`
	IsAutoBid bool     `json:"isAutoBid"`
	MaxAmount *float64 `json:"maxAmount" binding:"omitempty,gt=0"`
	Notes     string   `json:"notes" binding:"max=1000"`
}

// CreateAuctionRequest is the body of POST /auctions. The seller comes from the bearer token.
type CreateAuctionRequest struct {
	Title        string            `json:"title" binding:"required,max=200"`
	Description  string            `json:"description" binding:"max=5000"`
	ImageURL     string            `json:"imageUrl" binding:"omitempty,url"`
	CategoryID   int64             `json:"categoryId" binding:"required,gt=0"`
	InitialPrice float64           `json:"initialPrice" binding:"required,gt=0"`
	Increment    float64           `json:"increment" binding:"required,gt=0"`
	AuctionType  model.AuctionType `json:"auctionType" binding:"omitempty,auction_type"`
	StartDate    time.Time         `json:"startDate" binding:"required"`
	EndDate      time.Time         `json:"endDate" binding:"required,gtfield=StartDate"`
}

// WatchlistRequest is the body of POST /watchlist
type WatchlistRequest struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"`
}

// AuctionFilterQuery binds the query string of GET /auctions
type AuctionFilterQuery struct {
	CategoryID *int64 `form:"categoryId" binding:"omitempty,gt=0"`
	SellerID   *int64 `form:"sellerId" binding:"omitempty,gt=0"`
	Status     string `form:"status" binding:"omitempty,oneof=upcoming active ended sold"`
}

// AuctionResponse is an auction with its countdown
type AuctionResponse struct {
	model.Auction
	TimeRemainingSeconds int64 `json:"timeRemainingSeconds"`
}

// PlaceBidResponse is returned for an accepted bid
type PlaceBidResponse struct {
	Bid     model.Bid       `json:"bid"`
	Auction AuctionResponse `json:"auction"`
}

// FieldError describes one failed binding rule
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// MinimumBidDetails tells the bidder the smallest amount that would be accepted
type MinimumBidDetails struct {
	MinAmount float64 `json:"minAmount"`
}

// ToDomain converts the request into the service's bid request
func (r PlaceBidRequest) ToDomain(userID int64) model.BidRequest {
	return model.BidRequest{
		AuctionID: r.ProductID,
		UserID:    userID,
		Amount:    r.Amount,
		IsAutoBid: r.IsAutoBid,
		MaxAmount: r.MaxAmount,
		Notes:     r.Notes,
	}
}

// ToDomain converts the request into the service's create request
func (r CreateAuctionRequest) ToDomain(sellerID int64) model.CreateAuctionRequest {
	return model.CreateAuctionRequest{
		Title:        r.Title,
		Description:  r.Description,
		ImageURL:     r.ImageURL,
		SellerID:     sellerID,
		CategoryID:   r.CategoryID,
		InitialPrice: r.InitialPrice,
		Increment:    r.Increment,
		AuctionType:  r.AuctionType,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
	}
}

// ToDomain converts the query into an auction filter
func (q AuctionFilterQuery) ToDomain() model.AuctionFilter {
	filter := model.AuctionFilter{CategoryID: q.CategoryID, SellerID: q.SellerID}
	if q.Status != "" {
		status := model.Status(q.Status)
		filter.Status = &status
	}
	return filter
}
