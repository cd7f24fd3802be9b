package repository

import (
	"context"

	"github.com/vytor/phrasecards/internal/models"
)

// Storage keys of the persisted snapshots. Snapshots exported from a web
// client's local storage use the same keys and import unchanged.
const (
	ReviewStatesKey = "srs_v5"
	DailyQuotaKey   = "daily_v5"
)

// StateRepository persists the review-state map and the daily quota as whole
// snapshots. Every save replaces the previous snapshot atomically.
type StateRepository interface {
	// LoadReviewStates returns an empty map when nothing was saved yet.
	LoadReviewStates(ctx context.Context) (map[int]models.ReviewState, error)
	SaveReviewStates(ctx context.Context, states map[int]models.ReviewState) error
	// LoadDailyQuota returns nil when nothing was saved yet.
	LoadDailyQuota(ctx context.Context) (*models.DailyQuota, error)
	SaveDailyQuota(ctx context.Context, quota models.DailyQuota) error
}
