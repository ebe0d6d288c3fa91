package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/steptracker/steptracker/internal/models"
)

// MockAttemptRepository is a mock implementation of repository.AttemptRepository
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) Append(ctx context.Context, attempt models.Attempt) (models.Attempt, error) {
	args := m.Called(ctx, attempt)
	return args.Get(0).(models.Attempt), args.Error(1)
}

func (m *MockAttemptRepository) Get(ctx context.Context, ref string) (*models.Attempt, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Attempt), args.Error(1)
}

func (m *MockAttemptRepository) ListCompleted(ctx context.Context, userID, questionID string) ([]models.Attempt, error) {
	args := m.Called(ctx, userID, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Attempt), args.Error(1)
}

func (m *MockAttemptRepository) ListAllForUser(ctx context.Context, userID string) ([]models.Attempt, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Attempt), args.Error(1)
}

func (m *MockAttemptRepository) List(ctx context.Context, filter models.AttemptFilter) ([]models.Attempt, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Attempt), args.Error(1)
}

func (m *MockAttemptRepository) Count(ctx context.Context, filter models.AttemptFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockAttemptRepository) Delete(ctx context.Context, ref string) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}
