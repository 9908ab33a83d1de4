package mocks

import (
	"context"

	"github.com/miksipiksic/chess-insights/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockLoader is a mock implementation of table.Loader
type MockLoader struct {
	mock.Mock
}

func (m *MockLoader) Load(ctx context.Context, path string) (models.GameTable, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(models.GameTable), args.Error(1)
}
