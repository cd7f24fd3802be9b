package sqlite

import (
	"context"
	"database/sql"

	"github.com/vytor/phrasecards/internal/logger"
	"github.com/vytor/phrasecards/internal/models"
	"github.com/vytor/phrasecards/internal/repository"
)

type stateRepository struct {
	db *sql.DB
}

// NewStateRepository creates a StateRepository backed by the kv_state table.
func NewStateRepository(db *sql.DB) repository.StateRepository {
	return &stateRepository{db: db}
}

func (r *stateRepository) LoadReviewStates(ctx context.Context) (map[int]models.ReviewState, error) {
	log := logger.FromContext(ctx).WithPrefix("state_repo")

	states := make(map[int]models.ReviewState)
	found, err := getBlob(ctx, r.db, repository.ReviewStatesKey, &states)
	if err != nil {
		log.Error("failed to load review states: %v", err)
		return nil, err
	}
	if !found {
		log.Debug("no review states saved yet")
	}
	return states, nil
}

func (r *stateRepository) SaveReviewStates(ctx context.Context, states map[int]models.ReviewState) error {
	log := logger.FromContext(ctx).WithPrefix("state_repo")
	log.Debug("saving %d review states", len(states))

	if states == nil {
		states = map[int]models.ReviewState{}
	}
	if err := putBlob(ctx, r.db, repository.ReviewStatesKey, states); err != nil {
		log.Error("failed to save review states: %v", err)
		return err
	}
	return nil
}

func (r *stateRepository) LoadDailyQuota(ctx context.Context) (*models.DailyQuota, error) {
	log := logger.FromContext(ctx).WithPrefix("state_repo")

	var q models.DailyQuota
	found, err := getBlob(ctx, r.db, repository.DailyQuotaKey, &q)
	if err != nil {
		log.Error("failed to load daily quota: %v", err)
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &q, nil
}

func (r *stateRepository) SaveDailyQuota(ctx context.Context, q models.DailyQuota) error {
	log := logger.FromContext(ctx).WithPrefix("state_repo")
	log.Debug("saving daily quota: day=%s, good=%d, goal=%d", q.Day, q.GoodCount, q.Goal)

	if err := putBlob(ctx, r.db, repository.DailyQuotaKey, q); err != nil {
		log.Error("failed to save daily quota: %v", err)
		return err
	}
	return nil
}
