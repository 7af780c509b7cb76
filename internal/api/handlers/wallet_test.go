package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/irfndi/paragon-ai-go/internal/api/handlers/testmocks"
	"github.com/irfndi/paragon-ai-go/internal/models"
	"github.com/irfndi/paragon-ai-go/internal/ratelimit"
)

func setupWalletRouter(handler *WalletHandler) *gin.Engine {
	router := gin.New()
	router.GET("/api/v1/ratelimit/:wallet", handler.GetRateLimitStatus)
	router.GET("/api/v1/credits/:wallet", handler.GetCredits)
	router.POST("/api/v1/admin/credits/:wallet", handler.AddCredits)
	return router
}

func get(router *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func post(router *gin.Engine, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestWalletHandler_GetRateLimitStatus(t *testing.T) {
	limiter := &testmocks.MockLimiter{}
	resetAt := time.Date(2026, 1, 1, 0, 1, 0, 0, time.UTC)
	limiter.On("Status", mock.Anything, testWallet).
		Return(ratelimit.Result{Allowed: true, Remaining: 7, ResetAt: resetAt}, nil)

	w := get(setupWalletRouter(NewWalletHandler(limiter, nil, quietLogger())), "/api/v1/ratelimit/"+testWallet)

	require.Equal(t, http.StatusOK, w.Code)
	var status models.RateLimitStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "0x52908400098527886e0f7030069857d2e4169ee7", status.Key)
	assert.True(t, status.Allowed)
	assert.Equal(t, 7, status.Remaining)
	assert.True(t, resetAt.Equal(status.ResetAt))
	limiter.AssertNotCalled(t, "Allow", mock.Anything, mock.Anything)
}

func TestWalletHandler_GetRateLimitStatus_Errors(t *testing.T) {
	limiter := &testmocks.MockLimiter{}
	limiter.On("Status", mock.Anything, testWallet).Return(ratelimit.Result{}, errors.New("redis down"))
	router := setupWalletRouter(NewWalletHandler(limiter, nil, quietLogger()))

	assert.Equal(t, http.StatusInternalServerError, get(router, "/api/v1/ratelimit/"+testWallet).Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/api/v1/ratelimit/short").Code)

	unconfigured := setupWalletRouter(NewWalletHandler(nil, nil, quietLogger()))
	assert.Equal(t, http.StatusServiceUnavailable, get(unconfigured, "/api/v1/ratelimit/"+testWallet).Code)
}

func TestWalletHandler_GetCredits(t *testing.T) {
	credits := &testmocks.MockCreditLedger{}
	credits.On("GetCredits", mock.Anything, testWallet).
		Return(&models.UserCredits{WalletAddress: "0x52908400098527886e0f7030069857d2e4169ee7", Credits: 12}, nil)

	w := get(setupWalletRouter(NewWalletHandler(nil, credits, quietLogger())), "/api/v1/credits/"+testWallet)

	require.Equal(t, http.StatusOK, w.Code)
	var body models.UserCredits
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 12, body.Credits)
}

func TestWalletHandler_GetCredits_Errors(t *testing.T) {
	credits := &testmocks.MockCreditLedger{}
	credits.On("GetCredits", mock.Anything, testWallet).Return(nil, errors.New("db down"))
	router := setupWalletRouter(NewWalletHandler(nil, credits, quietLogger()))

	assert.Equal(t, http.StatusInternalServerError, get(router, "/api/v1/credits/"+testWallet).Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/api/v1/credits/not-a-wallet!").Code)

	disabled := setupWalletRouter(NewWalletHandler(nil, nil, quietLogger()))
	assert.Equal(t, http.StatusServiceUnavailable, get(disabled, "/api/v1/credits/"+testWallet).Code)
}

func TestWalletHandler_AddCredits(t *testing.T) {
	credits := &testmocks.MockCreditLedger{}
	credits.On("AddCredits", mock.Anything, testWallet, 25).
		Return(&models.UserCredits{WalletAddress: "0x52908400098527886e0f7030069857d2e4169ee7", Credits: 30}, nil)

	w := post(setupWalletRouter(NewWalletHandler(nil, credits, quietLogger())), "/api/v1/admin/credits/"+testWallet, `{"amount":25}`)

	require.Equal(t, http.StatusOK, w.Code)
	var body models.UserCredits
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 30, body.Credits)
	credits.AssertExpectations(t)
}

func TestWalletHandler_AddCredits_Errors(t *testing.T) {
	credits := &testmocks.MockCreditLedger{}
	credits.On("AddCredits", mock.Anything, testWallet, 5).Return(nil, errors.New("db down"))
	router := setupWalletRouter(NewWalletHandler(nil, credits, quietLogger()))
	target := "/api/v1/admin/credits/" + testWallet

	assert.Equal(t, http.StatusInternalServerError, post(router, target, `{"amount":5}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(router, target, `{"amount":0}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(router, target, `{"amount":-3}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(router, target, `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(router, "/api/v1/admin/credits/short", `{"amount":5}`).Code)
	credits.AssertNumberOfCalls(t, "AddCredits", 1)

	disabled := setupWalletRouter(NewWalletHandler(nil, nil, quietLogger()))
	assert.Equal(t, http.StatusServiceUnavailable, post(disabled, target, `{"amount":5}`).Code)
}
