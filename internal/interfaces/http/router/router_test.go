package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type pingRegistrar struct {
	path       string
	registered bool
}

func (r *pingRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	r.registered = true
	path := r.path
	if path == "" {
		path = "/ping"
	}
	rg.GET(path, func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
}

func TestRouter_Setup(t *testing.T) {
	engine := gin.New()
	registrar := &pingRegistrar{}

	NewRouter(engine).Register(registrar).Setup()

	assert.True(t, registrar.registered)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouter_WithAPIVersion(t *testing.T) {
	engine := gin.New()

	NewRouter(engine, WithAPIVersion("v2")).Register(&pingRegistrar{}).Setup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v2/ping", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_MultipleRegistrars(t *testing.T) {
	engine := gin.New()
	first := &pingRegistrar{path: "/first"}
	second := &pingRegistrar{path: "/second"}

	r := NewRouter(engine)
	r.Register(first)
	r.Register(second)

	assert.False(t, first.registered)
	r.Setup()
	assert.True(t, first.registered)
	assert.True(t, second.registered)
}
