package lifecycle

import (
	"time"

	"auction-marketplace/internal/models"
)

// statusOrder ranks statuses along upcoming -> active -> ended -> sold.
var statusOrder = map[models.Status]int{
	models.StatusUpcoming: 0,
	models.StatusActive:   1,
	models.StatusEnded:    2,
	models.StatusSold:     3,
}

// DeriveStatus maps now onto the half-open schedule [start, end).
func DeriveStatus(now, start, end time.Time) models.Status {
	switch {
	case now.Before(start):
		return models.StatusUpcoming
	case now.Before(end):
		return models.StatusActive
	default:
		return models.StatusEnded
	}
}

// EffectiveStatus is the status an auction presents at now.
// Sold always wins. Otherwise the later of the stored and time-derived
// status is used, so a stored status never appears to move backwards.
func EffectiveStatus(a models.Auction, now time.Time) models.Status {
	if a.IsSold || a.Status == models.StatusSold {
		return models.StatusSold
	}

	derived := DeriveStatus(now, a.StartDate, a.EndDate)
	if stored, ok := statusOrder[a.Status]; ok && stored > statusOrder[derived] {
		return a.Status
	}
	return derived
}

// CanBid reports whether bids are accepted in status s. Early bids on
// upcoming auctions are allowed.
func CanBid(s models.Status) bool {
	return s == models.StatusUpcoming || s == models.StatusActive
}

// IsForward reports whether moving from -> to keeps the lifecycle monotonic.
func IsForward(from, to models.Status) bool {
	return statusOrder[to] > statusOrder[from]
}

// TimeRemaining returns the countdown shown for an auction: time until
// start for upcoming auctions, time until end for active ones, zero otherwise.
func TimeRemaining(a models.Auction, now time.Time) time.Duration {
	switch EffectiveStatus(a, now) {
	case models.StatusUpcoming:
		return a.StartDate.Sub(now)
	case models.StatusActive:
		return a.EndDate.Sub(now)
	default:
		return 0
	}
}
