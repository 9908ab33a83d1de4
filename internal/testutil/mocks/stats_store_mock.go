package mocks

import (
	"context"

	"github.com/miksipiksic/chess-insights/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockStatsStore is a mock implementation of repository.StatsStore
type MockStatsStore struct {
	mock.Mock
}

func (m *MockStatsStore) Insert(ctx context.Context, stats models.PlayerStats) (int64, error) {
	args := m.Called(ctx, stats)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatsStore) History(ctx context.Context, player string, limit int) ([]models.StatsSnapshot, error) {
	args := m.Called(ctx, player, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StatsSnapshot), args.Error(1)
}
