package server

import (
	"auction-marketplace/internal/auth"
	handler "auction-marketplace/services/bidding/handler"
	"auction-marketplace/services/bidding/helpers"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Dependencies are the services and guards the router is built from
type Dependencies struct {
	Bidding   handler.BiddingServiceInterface
	Watchlist handler.WatchlistServiceInterface
	Tokens    *auth.TokenManager
	// BidLimiter throttles bid submissions; nil disables throttling
	BidLimiter *rate.Limiter
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(deps Dependencies) *gin.Engine {
	helpers.RegisterValidations()

	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	biddingHandler := handler.NewBiddingHandler(deps.Bidding)
	watchlistHandler := handler.NewWatchlistHandler(deps.Watchlist)
	authRequired := AuthRequired(deps.Tokens)

	api := router.Group("/api")

	bids := api.Group("/bids")
	{
		bids.POST("", authRequired, RateLimit(deps.BidLimiter), biddingHandler.PlaceBidHandler)
	}

	auctions := api.Group("/auctions")
	{
		auctions.GET("", biddingHandler.ListAuctionsHandler)
		auctions.POST("", authRequired, biddingHandler.CreateAuctionHandler)
		auctions.GET("/:auction_id", biddingHandler.GetAuctionHandler)
		auctions.DELETE("/:auction_id", authRequired, biddingHandler.DeleteAuctionHandler)
		auctions.GET("/:auction_id/bids", biddingHandler.GetBidsByAuctionHandler)
		auctions.GET("/:auction_id/winning", biddingHandler.GetWinningBidHandler)
	}

	users := api.Group("/users", authRequired, OwnerOrAdmin("user_id"))
	{
		users.GET("/:user_id/bids", biddingHandler.GetBidsByUserHandler)
		users.GET("/:user_id/watchlist", watchlistHandler.ListHandler)
	}

	watch := api.Group("/watchlist", authRequired)
	{
		watch.POST("", watchlistHandler.AddHandler)
		watch.DELETE("/:auction_id", watchlistHandler.RemoveHandler)
	}

	return router
}
