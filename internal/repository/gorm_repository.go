package repository

import (
	"auction-marketplace/internal/biddingerrors"
	model "auction-marketplace/internal/models"
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// GormRepo is a PostgreSQL implementation of AuctionDB and WatchlistDB.
// Bids are applied inside a transaction holding a row lock on the auction.
type GormRepo struct {
	db *gorm.DB
}

// OpenPostgres connects gorm to the given PostgreSQL DSN
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// NewGormRepo wraps an open gorm connection
func NewGormRepo(db *gorm.DB) *GormRepo {
	return &GormRepo{db: db}
}

func (r *GormRepo) CreateAuction(ctx context.Context, auction model.Auction) (model.Auction, error) {
	auction.ID = 0
	if err := r.db.WithContext(ctx).Create(&auction).Error; err != nil {
		return model.Auction{}, fmt.Errorf("create auction: %w", err)
	}
	return auction, nil
}

func (r *GormRepo) GetAuction(ctx context.Context, id int64) (model.Auction, error) {
	var auction model.Auction
	err := r.db.WithContext(ctx).First(&auction, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Auction{}, fmt.Errorf("get auction %d: %w", id, biddingerrors.ErrAuctionNotFound)
	}
	if err != nil {
		return model.Auction{}, fmt.Errorf("get auction %d: %w", id, err)
	}
	return auction, nil
}

func (r *GormRepo) ListAuctions(ctx context.Context, filter model.AuctionFilter) ([]model.Auction, error) {
	query := r.db.WithContext(ctx).Model(&model.Auction{})
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.SellerID != nil {
		query = query.Where("seller_id = ?", *filter.SellerID)
	}

	var auctions []model.Auction
	if err := query.Order("id").Find(&auctions).Error; err != nil {
		return nil, fmt.Errorf("list auctions: %w", err)
	}
	return auctions, nil
}

func (r *GormRepo) DeleteAuction(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var auction model.Auction
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&auction, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("delete auction %d: %w", id, biddingerrors.ErrAuctionNotFound)
			}
			return fmt.Errorf("delete auction %d: %w", id, err)
		}

		var bidCount int64
		if err := tx.Model(&model.Bid{}).Where("auction_id = ?", id).Count(&bidCount).Error; err != nil {
			return fmt.Errorf("delete auction %d: count bids: %w", id, err)
		}
		if bidCount > 0 {
			return fmt.Errorf("delete auction %d: %w", id, biddingerrors.ErrHasBids)
		}

		if err := tx.Where("auction_id = ?", id).Delete(&model.WatchlistEntry{}).Error; err != nil {
			return fmt.Errorf("delete auction %d: watchlist: %w", id, err)
		}
		if err := tx.Delete(&model.Auction{}, id).Error; err != nil {
			return fmt.Errorf("delete auction %d: %w", id, err)
		}
		return nil
	})
}

func (r *GormRepo) UpdateStatus(ctx context.Context, id int64, from, to model.Status) error {
	result := r.db.WithContext(ctx).Model(&model.Auction{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return fmt.Errorf("update status of auction %d: %w", id, result.Error)
	}
	if result.RowsAffected == 1 {
		return nil
	}

	if _, err := r.GetAuction(ctx, id); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return fmt.Errorf("update status of auction %d from %s: %w", id, from, biddingerrors.ErrStatusConflict)
}

func (r *GormRepo) ApplyBid(ctx context.Context, auctionID int64, fn BidFunc) (model.Auction, model.Bid, error) {
	var updated model.Auction
	var placed model.Bid

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Auction
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&current, auctionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("apply bid to auction %d: %w", auctionID, biddingerrors.ErrAuctionNotFound)
			}
			return fmt.Errorf("apply bid to auction %d: %w", auctionID, err)
		}

		next, bid, err := fn(current)
		if err != nil {
			return err
		}

		bid.ID = 0
		bid.AuctionID = auctionID
		if err := tx.Create(&bid).Error; err != nil {
			return fmt.Errorf("apply bid to auction %d: insert bid: %w", auctionID, err)
		}

		err = tx.Model(&model.Auction{}).Where("id = ?", auctionID).Updates(map[string]any{
			"current_price": next.CurrentPrice,
			"bid_count":     next.BidCount,
			"status":        next.Status,
		}).Error
		if err != nil {
			return fmt.Errorf("apply bid to auction %d: update auction: %w", auctionID, err)
		}

		next.ID = auctionID
		updated, placed = next, bid
		return nil
	})
	if err != nil {
		return model.Auction{}, model.Bid{}, err
	}
	return updated, placed, nil
}

func (r *GormRepo) GetBidsByAuction(ctx context.Context, auctionID int64) ([]model.Bid, error) {
	var bids []model.Bid
	err := r.db.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Order("amount DESC, created_at ASC, id ASC").
		Find(&bids).Error
	if err != nil {
		return nil, fmt.Errorf("get bids for auction %d: %w", auctionID, err)
	}
	return bids, nil
}

func (r *GormRepo) GetBidsByUser(ctx context.Context, userID int64) ([]model.Bid, error) {
	var bids []model.Bid
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&bids).Error
	if err != nil {
		return nil, fmt.Errorf("get bids for user %d: %w", userID, err)
	}
	return bids, nil
}

func (r *GormRepo) AddWatchlistEntry(ctx context.Context, entry model.WatchlistEntry) (model.WatchlistEntry, error) {
	if _, err := r.GetAuction(ctx, entry.AuctionID); err != nil {
		return model.WatchlistEntry{}, fmt.Errorf("watch auction: %w", err)
	}

	entry.ID = 0
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		if isUniqueViolation(err) {
			return model.WatchlistEntry{}, fmt.Errorf("watch auction %d for user %d: %w", entry.AuctionID, entry.UserID, biddingerrors.ErrAlreadyWatching)
		}
		return model.WatchlistEntry{}, fmt.Errorf("watch auction %d for user %d: %w", entry.AuctionID, entry.UserID, err)
	}
	return entry, nil
}

func (r *GormRepo) GetWatchlistByUser(ctx context.Context, userID int64) ([]model.WatchlistEntry, error) {
	var entries []model.WatchlistEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("get watchlist for user %d: %w", userID, err)
	}
	return entries, nil
}

func (r *GormRepo) RemoveWatchlistEntry(ctx context.Context, userID, auctionID int64) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND auction_id = ?", userID, auctionID).
		Delete(&model.WatchlistEntry{})
	if result.Error != nil {
		return fmt.Errorf("unwatch auction %d for user %d: %w", auctionID, userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("unwatch auction %d for user %d: %w", auctionID, userID, biddingerrors.ErrWatchlistEntryNotFound)
	}
	return nil
}

// isUniqueViolation detects PostgreSQL error 23505 without binding to the pgx error type
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "SQLSTATE 23505")
}
