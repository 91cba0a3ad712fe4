package middleware

import (
	"context"
	"testing"
	"time"

	"anonbot/internal/testutil"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func newTestCallbackLimiter(clock clockwork.Clock) *CallbackLimiter {
	return NewCallbackLimiter(CallbackLimitOptions{
		Interval: time.Second,
		AdminID:  testAdminID,
		Exempt:   []string{"ask_another"},
		Clock:    clock,
		Logger:   testutil.NewTestLogger(),
	})
}

func TestCallbackLimiter_DoubleTap(t *testing.T) {
	clock := testutil.NewTestClock()
	limiter := newTestCallbackLimiter(clock)

	calls := 0
	handler := limiter.Middleware(countingHandler(&calls))

	first := testutil.NewCallbackContext(42, "some_button", "1")
	assert.NoError(t, handler(first))
	assert.Equal(t, 1, calls)
	assert.Empty(t, first.Responses)

	second := testutil.NewCallbackContext(42, "some_button", "1")
	assert.NoError(t, handler(second))
	assert.Equal(t, 1, calls)
	if assert.Len(t, second.Responses, 1) {
		assert.Equal(t, callbackTooFastText, second.Responses[0].Text)
		assert.False(t, second.Responses[0].ShowAlert)
	}

	other := testutil.NewCallbackContext(43, "some_button", "1")
	assert.NoError(t, handler(other))
	assert.Equal(t, 2, calls, "users are limited independently")

	clock.Advance(time.Second)
	third := testutil.NewCallbackContext(42, "some_button", "1")
	assert.NoError(t, handler(third))
	assert.Equal(t, 3, calls)
}

func TestCallbackLimiter_Exemptions(t *testing.T) {
	tests := []struct {
		name   string
		userID int64
		unique string
		data   string
	}{
		{
			name:   "admin",
			userID: testAdminID,
			unique: "answer",
			data:   "7",
		},
		{
			name:   "exempt unique",
			userID: 42,
			unique: "ask_another",
		},
		{
			name:   "exempt unique from raw data",
			userID: 42,
			data:   "\fask_another|",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := newTestCallbackLimiter(testutil.NewTestClock())
			calls := 0
			handler := limiter.Middleware(countingHandler(&calls))

			for i := 0; i < 3; i++ {
				ctx := testutil.NewCallbackContext(tt.userID, tt.unique, tt.data)
				assert.NoError(t, handler(ctx))
				assert.Empty(t, ctx.Responses)
			}
			assert.Equal(t, 3, calls)
		})
	}
}

func TestCallbackLimiter_IgnoresMessages(t *testing.T) {
	limiter := newTestCallbackLimiter(testutil.NewTestClock())
	calls := 0
	handler := limiter.Middleware(countingHandler(&calls))

	for i := 0; i < 3; i++ {
		assert.NoError(t, handler(testutil.NewMessageContext(42, "hello there")))
	}
	assert.Equal(t, 3, calls)
}

func TestCallbackLimiter_Sweep(t *testing.T) {
	clock := testutil.NewTestClock()
	limiter := newTestCallbackLimiter(clock)
	handler := limiter.Middleware(countingHandler(new(int)))

	assert.NoError(t, handler(testutil.NewCallbackContext(1, "some_button", "")))
	clock.Advance(2 * time.Hour)
	assert.NoError(t, handler(testutil.NewCallbackContext(2, "some_button", "")))

	removed, err := limiter.Sweep(context.Background(), time.Hour)
	assert.NoError(t, err)
	assert.Equal(t, 1, removed)

	removed, err = limiter.Sweep(context.Background(), time.Hour)
	assert.NoError(t, err)
	assert.Equal(t, 0, removed)
}
