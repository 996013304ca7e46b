package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

func setupRouter(logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GinMiddleware(logger))
	return router
}

func TestGinMiddleware(t *testing.T) {
	t.Run("logs successful requests at info", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		router := setupRouter(zap.New(core))
		router.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping?verbose=1", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
		fields := entries[0].ContextMap()
		assert.Equal(t, "GET", fields["method"])
		assert.Equal(t, "/ping", fields["path"])
		assert.Equal(t, int64(http.StatusOK), fields["status"])
		assert.Equal(t, "verbose=1", fields["query"])
	})

	t.Run("logs server errors at error level", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		router := setupRouter(zap.New(core))
		router.GET("/boom", func(c *gin.Context) {
			c.Status(http.StatusInternalServerError)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	})

	t.Run("logs client errors at warn level", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		router := setupRouter(zap.New(core))
		router.GET("/bad", func(c *gin.Context) {
			c.Status(http.StatusBadRequest)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bad", nil))

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	})

	t.Run("stores request-scoped logger in gin context", func(t *testing.T) {
		router := setupRouter(zap.NewNop())
		var got *zap.Logger
		router.GET("/ctx", func(c *gin.Context) {
			got = GetGinLogger(c)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ctx", nil))

		assert.NotNil(t, got)
	})
}

func TestRecovery(t *testing.T) {
	t.Run("recovers from panic and returns 500", func(t *testing.T) {
		core, logs := observer.New(zapcore.ErrorLevel)
		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.Use(Recovery(zap.New(core)))
		router.GET("/panic", func(c *gin.Context) {
			panic("something broke")
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "Panic recovered", entries[0].Message)
	})
}

func TestGetGinLogger_Missing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	// Must never return nil even without middleware
	assert.NotNil(t, GetGinLogger(c))
}
