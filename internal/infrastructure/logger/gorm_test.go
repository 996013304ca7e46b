package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), logs
}

func TestGormLogger_Trace(t *testing.T) {
	queryFunc := func() (string, int64) {
		return "SELECT * FROM payment_requests", 3
	}

	t.Run("logs queries at debug when level is info", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Info)

		gl.Trace(context.Background(), time.Now(), queryFunc, nil)

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
		assert.Equal(t, "SQL Query", entries[0].Message)
		assert.Equal(t, "SELECT * FROM payment_requests", entries[0].ContextMap()["sql"])
	})

	t.Run("logs errors with the failed statement", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Error)

		gl.Trace(context.Background(), time.Now(), queryFunc, errors.New("connection reset"))

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		assert.Equal(t, "SQL Error", entries[0].Message)
	})

	t.Run("suppresses record not found errors", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Error)

		gl.Trace(context.Background(), time.Now(), queryFunc, gormlogger.ErrRecordNotFound)

		assert.Empty(t, logs.All())
	})

	t.Run("warns on slow queries", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Warn, WithSlowThreshold(time.Nanosecond))

		gl.Trace(context.Background(), time.Now().Add(-time.Second), queryFunc, nil)

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	})

	t.Run("silent level emits nothing", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Silent)

		gl.Trace(context.Background(), time.Now(), queryFunc, errors.New("ignored"))

		assert.Empty(t, logs.All())
	})

	t.Run("includes request ID from context", func(t *testing.T) {
		gl, logs := newObservedGormLogger(gormlogger.Info)
		ctx := context.WithValue(context.Background(), RequestIDKey, "req-9")

		gl.Trace(ctx, time.Now(), queryFunc, nil)

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "req-9", entries[0].ContextMap()["request_id"])
	})
}

func TestGormLogger_LogMode(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Warn)

	changed := gl.LogMode(gormlogger.Silent)

	// Original logger keeps its level
	assert.Equal(t, gormlogger.Warn, gl.logLevel)
	assert.Equal(t, gormlogger.Silent, changed.(*GormLogger).logLevel)
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("info"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("unknown"))
}
