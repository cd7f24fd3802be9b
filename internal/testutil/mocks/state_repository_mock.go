package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/phrasecards/internal/models"
)

// MockStateRepository is a mock implementation of repository.StateRepository
type MockStateRepository struct {
	mock.Mock
}

func (m *MockStateRepository) LoadReviewStates(ctx context.Context) (map[int]models.ReviewState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]models.ReviewState), args.Error(1)
}

func (m *MockStateRepository) SaveReviewStates(ctx context.Context, states map[int]models.ReviewState) error {
	args := m.Called(ctx, states)
	return args.Error(0)
}

func (m *MockStateRepository) LoadDailyQuota(ctx context.Context) (*models.DailyQuota, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DailyQuota), args.Error(1)
}

func (m *MockStateRepository) SaveDailyQuota(ctx context.Context, quota models.DailyQuota) error {
	args := m.Called(ctx, quota)
	return args.Error(0)
}
