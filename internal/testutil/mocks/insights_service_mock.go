package mocks

import (
	"context"

	"github.com/miksipiksic/chess-insights/internal/models"
	"github.com/miksipiksic/chess-insights/internal/services"
	"github.com/stretchr/testify/mock"
)

// MockInsightsService is a mock implementation of services.InsightsService
type MockInsightsService struct {
	mock.Mock
}

func (m *MockInsightsService) PlayerStats(ctx context.Context, req services.StatsRequest) (*services.Report, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Report), args.Error(1)
}

func (m *MockInsightsService) History(ctx context.Context, player string, limit int) ([]models.StatsSnapshot, error) {
	args := m.Called(ctx, player, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StatsSnapshot), args.Error(1)
}
