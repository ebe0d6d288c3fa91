package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/steptracker/steptracker/internal/models"
)

// MockDraftRepository is a mock implementation of repository.DraftRepository
type MockDraftRepository struct {
	mock.Mock
}

func (m *MockDraftRepository) Put(ctx context.Context, draft models.Draft) error {
	args := m.Called(ctx, draft)
	return args.Error(0)
}

func (m *MockDraftRepository) Get(ctx context.Context, userID, questionID string) (*models.Draft, error) {
	args := m.Called(ctx, userID, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Draft), args.Error(1)
}

func (m *MockDraftRepository) Delete(ctx context.Context, userID, questionID string) error {
	args := m.Called(ctx, userID, questionID)
	return args.Error(0)
}
