// Package sweeper persists schedule-driven status transitions so stored
// auction statuses catch up with their start and end dates.
package sweeper

import (
	"auction-marketplace/internal/biddingerrors"
	"auction-marketplace/internal/lifecycle"
	model "auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
	"auction-marketplace/utils"
	"context"
	"errors"
	"time"
)

// Sweeper periodically moves stored statuses forward along the lifecycle
type Sweeper struct {
	repo     repository.AuctionDB
	interval time.Duration
	now      func() time.Time
}

// New creates a sweeper running every interval
func New(repo repository.AuctionDB, interval time.Duration) *Sweeper {
	return &Sweeper{repo: repo, interval: interval, now: time.Now}
}

// Run sweeps once immediately and then on every tick until ctx is cancelled
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweepAndLog(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepAndLog(ctx)
		}
	}
}

func (s *Sweeper) sweepAndLog(ctx context.Context) {
	moved, err := s.SweepOnce(ctx)
	if err != nil {
		utils.Error("status sweep failed", map[string]any{"error": err.Error()})
		return
	}
	if moved > 0 {
		utils.Info("status sweep complete", map[string]any{"transitions": moved})
	}
}

// SweepOnce persists every pending upcoming -> active and -> ended transition.
// Sold is never written here. It returns the number of auctions updated.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	auctions, err := s.repo.ListAuctions(ctx, model.AuctionFilter{})
	if err != nil {
		return 0, err
	}

	now := s.now()
	moved := 0
	for _, a := range auctions {
		if ctx.Err() != nil {
			return moved, ctx.Err()
		}

		target := lifecycle.DeriveStatus(now, a.StartDate, a.EndDate)
		if a.IsSold || !lifecycle.IsForward(a.Status, target) {
			continue
		}

		if err := s.repo.UpdateStatus(ctx, a.ID, a.Status, target); err != nil {
			// a concurrent bid already moved it
			if errors.Is(err, biddingerrors.ErrStatusConflict) || errors.Is(err, biddingerrors.ErrAuctionNotFound) {
				utils.Debug("status sweep skipped auction", map[string]any{"auction_id": a.ID, "error": err.Error()})
				continue
			}
			utils.Warn("failed to update auction status", map[string]any{
				"auction_id": a.ID,
				"from":       a.Status,
				"to":         target,
				"error":      err.Error(),
			})
			continue
		}
		moved++
	}
	return moved, nil
}
