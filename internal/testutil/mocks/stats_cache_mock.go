package mocks

import (
	"context"

	"github.com/miksipiksic/chess-insights/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockStatsCache is a mock implementation of cache.StatsCache
type MockStatsCache struct {
	mock.Mock
}

func (m *MockStatsCache) Get(ctx context.Context, player string) (*models.PlayerStats, error) {
	args := m.Called(ctx, player)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlayerStats), args.Error(1)
}

func (m *MockStatsCache) Set(ctx context.Context, stats models.PlayerStats) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}
