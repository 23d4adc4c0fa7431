package handler

import (
	"context"
	"errors"
	"net/http"

	"bitcoin-price-service/internal/apperr"
	"bitcoin-price-service/internal/service"
	"bitcoin-price-service/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// QuoteHandler handles live quote HTTP requests
type QuoteHandler struct {
	quoteService *service.QuoteService
	logger       *zap.Logger
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(quoteService *service.QuoteService, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
		logger:       logger,
	}
}

// GetQuote handles fetching a live quote from a single provider. Provider
// failures surface as 502 with the failure kind.
// GET /api/v1/quotes/:provider
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	providerID := c.Param("provider")

	quote, err := h.quoteService.QuoteFrom(c.Request.Context(), providerID)
	if err != nil {
		var (
			notFound    *apperr.NotFoundError
			providerErr *apperr.ProviderError
		)
		switch {
		case errors.As(err, &notFound):
			utils.SendErrorResponse(c, http.StatusNotFound, notFound.Error())
		case errors.As(err, &providerErr):
			h.logger.Warn("Provider quote failed",
				zap.String("provider", providerID),
				zap.String("kind", string(providerErr.Kind)),
				zap.Error(err))
			utils.SendErrorResponse(c, http.StatusBadGateway, providerErr.Error())
		default:
			h.logger.Error("Failed to get quote",
				zap.String("provider", providerID),
				zap.Error(err))
			utils.SendErrorResponse(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, quote)
}

// GetAllQuotes handles fetching quotes from every configured provider. The
// response is 200 even when some or all providers fail; each entry reports
// its own status so callers can use the providers that worked.
// GET /api/v1/quotes
func (h *QuoteHandler) GetAllQuotes(c *gin.Context) {
	result, err := h.quoteService.QuotesFromAll(c.Request.Context())
	if err != nil {
		// Only caller cancellation reaches here.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			c.Status(http.StatusRequestTimeout)
			return
		}
		h.logger.Error("Failed to aggregate quotes", zap.Error(err))
		utils.SendErrorResponse(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, result)
}
