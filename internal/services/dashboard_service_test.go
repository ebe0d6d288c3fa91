package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/steptracker/steptracker/internal/apperr"
	"github.com/steptracker/steptracker/internal/kv"
	"github.com/steptracker/steptracker/internal/models"
	"github.com/steptracker/steptracker/internal/services"
	"github.com/steptracker/steptracker/internal/testutil/mocks"
)

func intp(v int) *int { return &v }

func TestDashboardGet_ComputesFromHistory(t *testing.T) {
	attempts := new(mocks.MockAttemptRepository)
	svc := services.NewDashboardService(attempts, kv.NewStore(), time.Minute, 120, 5)

	now := time.Now().UTC()
	attempts.On("ListAllForUser", mock.Anything, "u1").Return([]models.Attempt{
		{QuestionID: "22-S2-Q7", Status: models.StatusCompleted, TimeSeconds: intp(1500), Difficulty: 5, Tags: []string{"vectors"}, CreatedAt: now},
		{QuestionID: "21-S1-Q4", Status: models.StatusAttempted, TimeSeconds: intp(300), Difficulty: 2, Tags: []string{"integration"}, CreatedAt: now.Add(-time.Hour)},
	}, nil).Once()

	dashboard, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, 2, dashboard.Summary.Attempted)
	assert.Equal(t, 1, dashboard.Summary.Completed)
	assert.Equal(t, "vectors", dashboard.HardestTag)
	assert.Len(t, dashboard.Heatmap, 120)
	assert.NotEmpty(t, dashboard.Priority)
	assert.Len(t, dashboard.Recent, 2)
	assert.False(t, dashboard.GeneratedAt.IsZero())
}

func TestDashboardGet_ServedFromCache(t *testing.T) {
	attempts := new(mocks.MockAttemptRepository)
	svc := services.NewDashboardService(attempts, kv.NewStore(), time.Minute, 120, 5)

	attempts.On("ListAllForUser", mock.Anything, "u1").Return([]models.Attempt{}, nil).Once()

	_, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)

	// Second read must not hit the store
	_, err = svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	attempts.AssertNumberOfCalls(t, "ListAllForUser", 1)
}

func TestDashboardGet_InvalidateForcesRecompute(t *testing.T) {
	attempts := new(mocks.MockAttemptRepository)
	svc := services.NewDashboardService(attempts, kv.NewStore(), time.Minute, 120, 5)

	attempts.On("ListAllForUser", mock.Anything, "u1").Return([]models.Attempt{}, nil)

	_, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)

	svc.Invalidate("u1")

	_, err = svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	attempts.AssertNumberOfCalls(t, "ListAllForUser", 2)
}

func TestDashboardGet_ReadFailureIsAnError(t *testing.T) {
	attempts := new(mocks.MockAttemptRepository)
	svc := services.NewDashboardService(attempts, kv.NewStore(), time.Minute, 120, 5)

	attempts.On("ListAllForUser", mock.Anything, "u1").Return(nil, errors.New("io error"))

	_, err := svc.Get(context.Background(), "u1")

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.CodeInternal, appErr.Code)
}

func TestDashboardGet_EmptyHistoryStillRendersEverything(t *testing.T) {
	attempts := new(mocks.MockAttemptRepository)
	svc := services.NewDashboardService(attempts, kv.NewStore(), time.Minute, 120, 5)

	attempts.On("ListAllForUser", mock.Anything, "u1").Return([]models.Attempt{}, nil)

	dashboard, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, 0, dashboard.Summary.Attempted)
	assert.Equal(t, 0, dashboard.Summary.Completed)
	assert.Equal(t, 0, dashboard.Summary.AvgTimeMinutes)
	assert.Equal(t, models.NoData, dashboard.Summary.AvgDifficulty)
	assert.Equal(t, models.NoData, dashboard.HardestTag)
	assert.Len(t, dashboard.Heatmap, 120)
	assert.Empty(t, dashboard.Priority)
	assert.Empty(t, dashboard.Recent)
}

func TestDashboardWarm_PopulatesCache(t *testing.T) {
	attempts := new(mocks.MockAttemptRepository)
	cache := kv.NewStore()
	svc := services.NewDashboardService(attempts, cache, time.Minute, 120, 5)

	attempts.On("ListAllForUser", mock.Anything, "u1").Return([]models.Attempt{}, nil).Once()

	require.NoError(t, svc.Warm(context.Background(), "u1"))

	// Get is now a cache hit
	_, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	attempts.AssertNumberOfCalls(t, "ListAllForUser", 1)
}
