package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ecgenius/config"
	"ecgenius/diagnostics"
	"ecgenius/logger"
	"ecgenius/middleware"
	"ecgenius/models"
	"ecgenius/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:      config.ServerConfig{Mode: gin.TestMode},
		Diagnostics: config.DiagnosticsConfig{HeartRateMode: "fixed", FixedHeartRate: 72.5},
		RateLimit:   config.RateLimitConfig{MaxRequests: 2, Window: time.Minute},
	}
}

func newTestEngine(cfg *config.Config, audit *middleware.AuditLogger) *gin.Engine {
	return SetupRouter(cfg, Deps{
		Store:       store.NewMemoryStore(),
		Diagnostics: diagnostics.NewStub(cfg.Diagnostics),
		IDs:         models.NewIDGenerator(),
		Audit:       audit,
		Log:         logger.Nop(),
	})
}

func serve(r http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSetupRouter_Routes(t *testing.T) {
	r := newTestEngine(testConfig(), nil)

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/", "", http.StatusOK},
		{http.MethodGet, "/api", "", http.StatusOK},
		{http.MethodGet, "/predict", "", http.StatusOK},
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodPost, "/predict", `{"samples":[1,2]}`, http.StatusOK},
		{http.MethodPost, "/register", `{}`, http.StatusBadRequest},
		{http.MethodPost, "/update_patient_info", `{}`, http.StatusBadRequest},
		{http.MethodPost, "/get_report", `{}`, http.StatusBadRequest},
		{http.MethodPost, "/export_report", `{}`, http.StatusBadRequest},
		{http.MethodGet, "/swagger/doc.json", "", http.StatusOK},
		{http.MethodGet, "/nope", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := serve(r, tt.method, tt.path, tt.body, nil)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestSetupRouter_FixedHeartRate(t *testing.T) {
	r := newTestEngine(testConfig(), nil)
	w := serve(r, http.MethodPost, "/predict", `{"samples":[0.1]}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results models.Results `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 72.5, resp.Results.HeartRate)
}

func TestSetupRouter_RequestIDAndCORS(t *testing.T) {
	r := newTestEngine(testConfig(), nil)

	w := serve(r, http.MethodGet, "/health", "", map[string]string{middleware.RequestIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get(middleware.RequestIDHeader))

	w = serve(r, http.MethodGet, "/health", "", nil)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = serve(r, http.MethodOptions, "/predict", "", map[string]string{
		"Origin":                        "http://client.test",
		"Access-Control-Request-Method": http.MethodPost,
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSetupRouter_RateLimitOnlyOnPost(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Enabled = true
	r := newTestEngine(cfg, nil)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/predict", `{"samples":[]}`, nil).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodPost, "/predict", `{"samples":[]}`, nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api", "", nil).Code)
}

func TestSetupRouter_AuditKeepsBody(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	audit := middleware.NewAuditLogger(logger.NewFromZap(zap.New(core)), 16, 1024)
	r := newTestEngine(testConfig(), audit)

	w := serve(r, http.MethodPost, "/predict", `{"samples":[0.1,0.2,0.3]}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	audit.Close()

	entries := logs.FilterMessage("ECGenius request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/predict", entries[0].ContextMap()["path"])
}
