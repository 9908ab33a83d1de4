package mocks

import (
	"github.com/miksipiksic/chess-insights/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockWriteQueue is a mock implementation of jobs.WriteQueue
type MockWriteQueue struct {
	mock.Mock
}

func (m *MockWriteQueue) EnqueueCacheWrite(stats models.PlayerStats) error {
	args := m.Called(stats)
	return args.Error(0)
}

func (m *MockWriteQueue) EnqueueSnapshot(stats models.PlayerStats) error {
	args := m.Called(stats)
	return args.Error(0)
}
