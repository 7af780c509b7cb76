package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/irfndi/paragon-ai-go/internal/models"
	"github.com/irfndi/paragon-ai-go/internal/ratelimit"
	"github.com/irfndi/paragon-ai-go/internal/utils"
)

// CreditLedger reads and tops up wallet credit balances.
type CreditLedger interface {
	GetCredits(ctx context.Context, wallet string) (*models.UserCredits, error)
	AddCredits(ctx context.Context, wallet string, amount int) (*models.UserCredits, error)
}

// AddCreditsRequest is the body of POST /api/v1/admin/credits/:wallet.
type AddCreditsRequest struct {
	Amount int `json:"amount" binding:"required,gt=0"`
}

// WalletHandler serves per-wallet quota and balance lookups.
type WalletHandler struct {
	limiter ratelimit.Limiter
	credits CreditLedger
	logger  *logrus.Logger
}

func NewWalletHandler(limiter ratelimit.Limiter, credits CreditLedger, logger *logrus.Logger) *WalletHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &WalletHandler{limiter: limiter, credits: credits, logger: logger}
}

// GetRateLimitStatus handles GET /api/v1/ratelimit/:wallet without consuming quota.
func (h *WalletHandler) GetRateLimitStatus(c *gin.Context) {
	wallet, ok := walletParam(c)
	if !ok {
		return
	}
	if h.limiter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "rate limiting is not configured"})
		return
	}

	result, err := h.limiter.Status(c.Request.Context(), wallet)
	if err != nil {
		h.logger.WithError(err).Error("Failed to read rate limit status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read rate limit status"})
		return
	}

	c.JSON(http.StatusOK, models.RateLimitStatus{
		Key:       strings.ToLower(wallet),
		Allowed:   result.Allowed,
		Remaining: result.Remaining,
		ResetAt:   result.ResetAt,
	})
}

// GetCredits handles GET /api/v1/credits/:wallet.
func (h *WalletHandler) GetCredits(c *gin.Context) {
	wallet, ok := walletParam(c)
	if !ok {
		return
	}
	if h.credits == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "credits are not enabled"})
		return
	}

	credits, err := h.credits.GetCredits(c.Request.Context(), wallet)
	if err != nil {
		h.logger.WithError(err).Error("Failed to read credits")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read credits"})
		return
	}

	c.JSON(http.StatusOK, credits)
}

// AddCredits handles POST /api/v1/admin/credits/:wallet. It must be mounted
// behind admin authentication.
func (h *WalletHandler) AddCredits(c *gin.Context) {
	wallet, ok := walletParam(c)
	if !ok {
		return
	}
	if h.credits == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "credits are not enabled"})
		return
	}

	var req AddCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a positive integer"})
		return
	}

	credits, err := h.credits.AddCredits(c.Request.Context(), wallet, req.Amount)
	if err != nil {
		h.logger.WithError(err).Error("Failed to add credits")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add credits"})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"wallet": credits.WalletAddress,
		"amount": req.Amount,
		"total":  credits.Credits,
	}).Info("Credits granted")
	c.JSON(http.StatusOK, credits)
}

func walletParam(c *gin.Context) (string, bool) {
	wallet := strings.TrimSpace(c.Param("wallet"))
	if err := utils.ValidateWalletAddress(wallet); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return wallet, true
}
