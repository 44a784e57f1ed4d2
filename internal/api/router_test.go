package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinger struct{ err error }

func (p pinger) Ping(ctx context.Context) error { return p.err }

func newTestRouter(t *testing.T, cfg Config, logs *bytes.Buffer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg.Logger = zerolog.New(logs)
	return NewRouter(cfg)
}

func TestHealthz(t *testing.T) {
	var logs bytes.Buffer

	r := newTestRouter(t, Config{DB: pinger{}}, &logs)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	r = newTestRouter(t, Config{DB: pinger{err: errors.New("connection refused")}}, &logs)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, logs.String(), "connection refused")
}

func TestRequestLogger(t *testing.T) {
	var logs bytes.Buffer
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(zerolog.New(&logs)), Recovery(zerolog.New(&logs)))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, logs.String(), "kaboom")

	logs.Reset()
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "/missing", entry["path"])
	assert.EqualValues(t, 404, entry["status"])
}

func TestCORS(t *testing.T) {
	var logs bytes.Buffer
	r := newTestRouter(t, Config{IsProduction: true, ProdOrigins: "https://admin.example.com, https://www.example.com"}, &logs)
	gin.SetMode(gin.TestMode)

	req := httptest.NewRequest(http.MethodOptions, "/v1/upcoming", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://admin.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/v1/upcoming", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, splitOrigins(" https://a.example.com,,https://b.example.com "))
	assert.Empty(t, splitOrigins(""))
}
