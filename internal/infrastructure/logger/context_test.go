package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

func TestWithContext(t *testing.T) {
	logger := zap.NewNop()
	ctx := WithContext(context.Background(), logger)

	assert.Equal(t, logger, FromContext(ctx))
}

func TestFromContext_Missing(t *testing.T) {
	logger := FromContext(context.Background())

	// Must never return nil
	assert.NotNil(t, logger)
}

func TestWithRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	ctx, enriched := WithRequestID(context.Background(), logger, "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Equal(t, enriched, FromContext(ctx))

	enriched.Info("hello")
	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])
}

func TestGetRequestID_Missing(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
}
