package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"anonbot/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	tele "gopkg.in/telebot.v3"
)

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	mw := RequestLogger(zap.New(core), time.Minute)

	ctx := testutil.NewMessageContext(42, "secret question text")

	var seenCtx context.Context
	err := mw(func(c tele.Context) error {
		seenCtx = Context(c)
		Logger(c, zap.NewNop()).Info("inside handler")
		return nil
	})(ctx)

	assert.NoError(t, err)

	_, parseErr := uuid.Parse(RequestID(ctx))
	assert.NoError(t, parseErr)

	_, hasDeadline := seenCtx.Deadline()
	assert.True(t, hasDeadline)
	assert.Error(t, seenCtx.Err(), "context is cancelled once the update is handled")

	inside := logs.FilterMessage("inside handler").All()
	if assert.Len(t, inside, 1) {
		fields := inside[0].ContextMap()
		assert.Equal(t, RequestID(ctx), fields["rid"])
		assert.Equal(t, int64(42), fields["user_id"])
	}

	for _, entry := range logs.All() {
		for _, value := range entry.ContextMap() {
			assert.NotEqual(t, "secret question text", value)
		}
	}
}

func TestRequestLogger_PropagatesError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	mw := RequestLogger(zap.New(core), time.Minute)

	handlerErr := errors.New("telegram: bot was blocked by the user")
	err := mw(func(tele.Context) error { return handlerErr })(testutil.NewCallbackContext(42, "ask_another", ""))

	assert.ErrorIs(t, err, handlerErr)
	assert.Equal(t, 1, logs.FilterMessage("Failed to handle update").Len())
}

func TestContext_WithoutRequestLogger(t *testing.T) {
	ctx := testutil.NewMessageContext(42, "hi")
	assert.Equal(t, context.Background(), Context(ctx))
	assert.Empty(t, RequestID(ctx))

	fallback := zap.NewNop()
	assert.Same(t, fallback, Logger(ctx, fallback))
}

func TestAdminOnly(t *testing.T) {
	tests := []struct {
		name          string
		ctx           *testutil.FakeContext
		expectedCalls int
		expectedAcks  int
	}{
		{
			name:          "admin message",
			ctx:           testutil.NewMessageContext(testAdminID, "/stats"),
			expectedCalls: 1,
		},
		{
			name:          "user message dropped silently",
			ctx:           testutil.NewMessageContext(42, "/stats"),
			expectedCalls: 0,
		},
		{
			name:          "user callback acknowledged",
			ctx:           testutil.NewCallbackContext(42, "answer", "7"),
			expectedCalls: 0,
			expectedAcks:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := AdminOnly(testAdminID, testutil.NewTestLogger())(countingHandler(&calls))(tt.ctx)

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedCalls, calls)
			assert.Empty(t, tt.ctx.Sent)
			assert.Len(t, tt.ctx.Responses, tt.expectedAcks)
		})
	}
}
