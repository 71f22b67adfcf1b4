package http

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thorsten-l/l9g-accountinfo/internal/config"
	"github.com/thorsten-l/l9g-accountinfo/internal/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type pingRegistrar struct{}

func (pingRegistrar) RegisterRoutes(router *gin.Engine) {
	router.GET("/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pong": true})
	})
}

func testConfig() *config.Config {
	return &config.Config{
		ServerHost:       "127.0.0.1",
		ServerPort:       0,
		MetricsNamespace: "accountinfo_test",
	}
}

func TestServer_HealthAndReady(t *testing.T) {
	server := NewServer(testConfig(), slog.Default(), nil)

	for _, path := range []string{"/health", "/ready"} {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, path, nil)
		server.GetHandler().ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusOK, recorder.Code, path)
	}
}

func TestServer_MountsRegistrars(t *testing.T) {
	server := NewServer(testConfig(), slog.Default(), nil, pingRegistrar{})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	server.GetHandler().ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "pong")
}

func TestServer_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitEnabled = true
	cfg.RateLimitRequestsPerSec = 1
	cfg.RateLimitBurst = 1

	server := NewServer(cfg, slog.Default(), nil, pingRegistrar{})

	first := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
}

func TestMetricsServer_ServesMetrics(t *testing.T) {
	provider, err := metrics.NewProvider("accountinfo_test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(t.Context()) })

	server := NewMetricsServer("127.0.0.1", 0, slog.Default(), provider)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	server.GetHandler().ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestParseOrigins(t *testing.T) {
	assert.Nil(t, parseOrigins(""))
	assert.Equal(t,
		[]string{"https://a.example", "https://b.example"},
		parseOrigins(" https://a.example , https://b.example ,"),
	)
}
