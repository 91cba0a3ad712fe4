package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"anonbot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockSweeper struct {
	mock.Mock
}

func (m *mockSweeper) CleanupOldStates(ctx context.Context, olderThan time.Duration) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSweeper) Sweep(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockLimitSweeper struct {
	mock.Mock
}

func (m *mockLimitSweeper) Sweep(ctx context.Context, idleAfter time.Duration) (int, error) {
	args := m.Called(ctx, idleAfter)
	return args.Int(0), args.Error(1)
}

func TestCleanupService_CleanupAll(t *testing.T) {
	tests := []struct {
		name          string
		stateError    error
		sessionError  error
		expectedError bool
	}{
		{
			name: "successful cleanup",
		},
		{
			name:          "state sweep fails",
			stateError:    fmt.Errorf("db error"),
			expectedError: true,
		},
		{
			name:          "session sweep fails, others still run",
			sessionError:  fmt.Errorf("db error"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sweeper := new(mockSweeper)
			limiter := new(mockLimitSweeper)
			sweeper.On("CleanupOldStates", mock.Anything, 24*time.Hour).Return(int64(2), tt.stateError)
			sweeper.On("Sweep", mock.Anything).Return(int64(0), tt.sessionError)
			limiter.On("Sweep", mock.Anything, time.Hour).Return(1, nil).Twice()

			service := NewCleanupService(sweeper, sweeper, 24*time.Hour, time.Hour, testutil.NewTestLogger(), limiter, limiter)

			err := service.CleanupAll(context.Background())

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			sweeper.AssertExpectations(t)
			limiter.AssertExpectations(t)
		})
	}
}
