package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/irfndi/paragon-ai-go/internal/marketdata"
	"github.com/irfndi/paragon-ai-go/internal/metrics"
	"github.com/irfndi/paragon-ai-go/internal/middleware"
	"github.com/irfndi/paragon-ai-go/internal/models"
	"github.com/irfndi/paragon-ai-go/internal/ratelimit"
	"github.com/irfndi/paragon-ai-go/internal/services"
	"github.com/irfndi/paragon-ai-go/internal/utils"
)

// Analyzer runs analyses and indicator computations.
type Analyzer interface {
	Analyze(ctx context.Context, req services.AnalyzeRequest) (*models.AnalysisResult, error)
	Indicators(ctx context.Context, symbol, interval string, limit int) (*models.IndicatorReport, error)
}

type AnalysisHandler struct {
	analyzer Analyzer
	limiter  ratelimit.Limiter
	metrics  *metrics.Metrics
	logger   *logrus.Logger
}

type AnalysisResponse struct {
	Success  bool                   `json:"success"`
	Analysis *models.AnalysisResult `json:"analysis"`
}

// NewAnalysisHandler creates the handler. limiter may be nil to disable rate limiting.
func NewAnalysisHandler(analyzer Analyzer, limiter ratelimit.Limiter, m *metrics.Metrics, logger *logrus.Logger) *AnalysisHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AnalysisHandler{
		analyzer: analyzer,
		limiter:  limiter,
		metrics:  m,
		logger:   logger,
	}
}

// Analyze handles POST /api/v1/analyze.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req models.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "market and wallet_address are required"})
		return
	}
	if err := utils.ValidateMarket(req.Market); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateWalletAddress(req.WalletAddress); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	middleware.AddSpanAttribute(c, "analysis.market", req.Market)

	if !h.allow(c, req.WalletAddress) {
		return
	}

	result, err := h.analyzer.Analyze(c.Request.Context(), services.AnalyzeRequest{
		Symbol: req.Market,
		Wallet: req.WalletAddress,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, AnalysisResponse{Success: true, Analysis: result})
}

// GetIndicators handles GET /api/v1/indicators.
func (h *AnalysisHandler) GetIndicators(c *gin.Context) {
	symbol := c.Query("symbol")
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol parameter is required"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = parsed
	}

	report, err := h.analyzer.Indicators(c.Request.Context(), symbol, c.Query("interval"), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// allow applies the wallet rate limit and writes the 429 response itself.
// Limiter failures let the request through.
func (h *AnalysisHandler) allow(c *gin.Context, wallet string) bool {
	if h.limiter == nil {
		return true
	}

	result, err := h.limiter.Allow(c.Request.Context(), wallet)
	if err != nil {
		h.logger.WithError(err).Warn("Rate limiter unavailable, allowing request")
		return true
	}

	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

	if !result.Allowed {
		if h.metrics != nil {
			h.metrics.RecordRateLimited()
		}
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":    "rate limit exceeded",
			"reset_at": result.ResetAt,
		})
		return false
	}
	return true
}

func (h *AnalysisHandler) writeError(c *gin.Context, err error) {
	switch {
	case utils.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInsufficientCredits):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "insufficient credits"})
	case errors.Is(err, marketdata.ErrSymbolNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown market"})
	case errors.Is(err, services.ErrMarketData):
		middleware.RecordError(c, err, "market data unavailable")
		c.JSON(http.StatusBadGateway, gin.H{"error": "market data unavailable"})
	default:
		middleware.RecordError(c, err, "analysis failed")
		h.logger.WithError(err).Error("Analysis request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
	}
}
