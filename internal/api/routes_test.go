package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/irfndi/paragon-ai-go/internal/api/handlers"
	"github.com/irfndi/paragon-ai-go/internal/api/handlers/testmocks"
	"github.com/irfndi/paragon-ai-go/internal/metrics"
	"github.com/irfndi/paragon-ai-go/internal/models"
	"github.com/irfndi/paragon-ai-go/internal/middleware"
)

const testWallet = "0x52908400098527886E0F7030069857D2E4169EE7"

func setupTestRouter(t *testing.T) (*gin.Engine, *tracetest.SpanRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	recorder := tracetest.NewSpanRecorder()
	router := NewRouter(RouterConfig{
		ServiceName:    "paragon-test",
		AllowedOrigins: []string{"https://app.example.com"},
		TracerProvider: sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)),
		Logger:         logger,
	})

	analyzer := &testmocks.MockAnalyzer{}
	analyzer.On("Indicators", mock.Anything, "BTCUSDT", "", 0).Return(&models.IndicatorReport{Symbol: "BTCUSDT"}, nil)
	credits := &testmocks.MockCreditLedger{}
	credits.On("GetCredits", mock.Anything, testWallet).Return(&models.UserCredits{Credits: 3}, nil)
	credits.On("AddCredits", mock.Anything, testWallet, 10).Return(&models.UserCredits{Credits: 13}, nil)
	db := &testmocks.MockHealthChecker{}
	db.On("HealthCheck", mock.Anything).Return(nil)

	SetupRoutes(router, Handlers{
		Analysis: handlers.NewAnalysisHandler(analyzer, nil, nil, logger),
		Wallet:   handlers.NewWalletHandler(nil, credits, logger),
		Health:   handlers.NewHealthHandler(db, db, "1.0.0"),
		Admin:    middleware.NewAdminMiddleware("test-admin-key"),
	}, metrics.NewMetrics())

	return router, recorder
}

func TestSetupRoutes(t *testing.T) {
	router, _ := setupTestRouter(t)

	tests := []struct {
		method string
		target string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/ready", http.StatusOK},
		{http.MethodGet, "/live", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/v1/indicators?symbol=BTCUSDT", http.StatusOK},
		{http.MethodGet, "/api/v1/credits/" + testWallet, http.StatusOK},
		{http.MethodGet, "/api/v1/ratelimit/" + testWallet, http.StatusServiceUnavailable},
		{http.MethodPost, "/api/v1/analyze", http.StatusBadRequest},
		{http.MethodPost, "/api/v1/admin/credits/" + testWallet, http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.target, strings.NewReader("{}")))
			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestNewRouter_TracesRequests(t *testing.T) {
	router, recorder := setupTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/credits/"+testWallet, nil))

	require.Equal(t, http.StatusOK, w.Code)
	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Name(), "/api/v1/credits/:wallet")
}

func TestNewRouter_CORSPreflight(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/analyze", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSetupRoutes_AdminCredits(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/credits/"+testWallet, strings.NewReader(`{"amount":10}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", "test-admin-key")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"credits":13`)
}

func TestSetupRoutes_AdminDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, Handlers{
		Analysis: handlers.NewAnalysisHandler(&testmocks.MockAnalyzer{}, nil, nil, nil),
		Wallet:   handlers.NewWalletHandler(nil, &testmocks.MockCreditLedger{}, nil),
		Health:   handlers.NewHealthHandler(nil, nil, "1.0.0"),
	}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/credits/"+testWallet, strings.NewReader(`{"amount":10}`))
	req.Header.Set("X-API-Key", "anything")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
