package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/billsync/backend/internal/domain/shared"
	"github.com/billsync/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*gin.Context)
		expectedID string
	}{
		{
			name: "from context",
			setup: func(c *gin.Context) {
				c.Set("request_id", "ctx-request-id")
			},
			expectedID: "ctx-request-id",
		},
		{
			name: "from header when context empty",
			setup: func(c *gin.Context) {
				c.Request.Header.Set("X-Request-ID", "header-request-id")
			},
			expectedID: "header-request-id",
		},
		{
			name:       "empty when not set",
			setup:      func(c *gin.Context) {},
			expectedID: "",
		},
		{
			name: "context takes precedence over header",
			setup: func(c *gin.Context) {
				c.Set("request_id", "ctx-id")
				c.Request.Header.Set("X-Request-ID", "header-id")
			},
			expectedID: "ctx-id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext()
			tt.setup(c)
			assert.Equal(t, tt.expectedID, getRequestID(c))
		})
	}
}

func TestGetUserID(t *testing.T) {
	t.Run("parses header", func(t *testing.T) {
		c, _ := newTestContext()
		want := uuid.New()
		c.Request.Header.Set("X-User-ID", want.String())

		got, err := getUserID(c)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("errors when absent", func(t *testing.T) {
		c, _ := newTestContext()
		_, err := getUserID(c)
		assert.Error(t, err)
	})

	t.Run("errors on malformed value", func(t *testing.T) {
		c, _ := newTestContext()
		c.Request.Header.Set("X-User-ID", "not-a-uuid")
		_, err := getUserID(c)
		assert.Error(t, err)
	})
}

func TestBaseHandler_HandleError(t *testing.T) {
	h := &BaseHandler{}

	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedErr  string
	}{
		{
			name:         "not found sentinel",
			err:          shared.ErrNotFound,
			expectedCode: http.StatusNotFound,
			expectedErr:  dto.ErrCodeNotFound,
		},
		{
			name:         "domain not found code",
			err:          shared.NewDomainError("PAYEE_NOT_FOUND", "Payee does not exist"),
			expectedCode: http.StatusNotFound,
			expectedErr:  dto.ErrCodeNotFound,
		},
		{
			name:         "already synced",
			err:          shared.NewDomainError("ALREADY_SYNCED", "Cannot modify a synced request"),
			expectedCode: http.StatusUnprocessableEntity,
			expectedErr:  dto.ErrCodeAlreadySynced,
		},
		{
			name:         "validation code",
			err:          shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative"),
			expectedCode: http.StatusBadRequest,
			expectedErr:  dto.ErrCodeInvalidInput,
		},
		{
			name:         "unknown error type",
			err:          errors.New("database exploded"),
			expectedCode: http.StatusInternalServerError,
			expectedErr:  dto.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext()
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectedCode, w.Code)

			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedErr, resp.Error.Code)
		})
	}

	t.Run("internal error hides details", func(t *testing.T) {
		c, w := newTestContext()
		h.HandleError(c, errors.New("password for db is hunter2"))

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotContains(t, resp.Error.Message, "hunter2")
	})

	t.Run("nil error writes nothing", func(t *testing.T) {
		c, w := newTestContext()
		h.HandleError(c, nil)
		assert.Empty(t, w.Body.String())
	})
}

func TestBaseHandler_ResponseHelpers(t *testing.T) {
	h := &BaseHandler{}

	t.Run("success", func(t *testing.T) {
		c, w := newTestContext()
		h.Success(c, gin.H{"ok": true})

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
	})

	t.Run("created", func(t *testing.T) {
		c, w := newTestContext()
		h.Created(c, gin.H{"id": "x"})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("error carries request ID", func(t *testing.T) {
		c, w := newTestContext()
		c.Set("request_id", "req-42")
		h.BadRequest(c, "nope")

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, "req-42", resp.Error.RequestID)
	})
}
