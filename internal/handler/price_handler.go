package handler

import (
	"net/http"
	"strconv"

	"bitcoin-price-service/internal/service"
	"bitcoin-price-service/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PriceHandler handles historical price HTTP requests
type PriceHandler struct {
	priceService *service.PriceService
	logger       *zap.Logger
}

// NewPriceHandler creates a new price handler
func NewPriceHandler(priceService *service.PriceService, logger *zap.Logger) *PriceHandler {
	return &PriceHandler{
		priceService: priceService,
		logger:       logger,
	}
}

// GetAllPrices handles retrieving the full history with pagination
// GET /api/v1/prices
func (h *PriceHandler) GetAllPrices(c *gin.Context) {
	params := utils.ParsePaginationParams(c, 1000, 5000) // default: 1000, max: 5000

	records, total, err := h.priceService.AllRecords(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		h.logger.Error("Failed to get prices", zap.Error(err))
		writeError(c, err)
		return
	}

	utils.SendPaginatedResponse(c, http.StatusOK, records, total, params.Page, params.Limit)
}

// GetPricesByYear handles retrieving prices for one calendar year
// GET /api/v1/prices/:year
func (h *PriceHandler) GetPricesByYear(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "Invalid year. Year must be an integer.")
		return
	}

	records, err := h.priceService.RecordsForYear(c.Request.Context(), year)
	if err != nil {
		h.logger.Error("Failed to get prices by year",
			zap.Error(err),
			zap.Int("year", year))
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"year": year, "prices": records})
}

// GetPricesByHalving handles retrieving prices around one halving event
// GET /api/v1/prices/halving/:number
func (h *PriceHandler) GetPricesByHalving(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "Invalid halving number. Must be an integer.")
		return
	}

	records, err := h.priceService.RecordsForHalving(c.Request.Context(), number)
	if err != nil {
		h.logger.Error("Failed to get prices by halving",
			zap.Error(err),
			zap.Int("halving_number", number))
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"halving_number": number, "prices": records})
}

// GetPricesAcrossHalvings handles retrieving the union of prices across all
// configured halving windows
// GET /api/v1/prices/halvings
func (h *PriceHandler) GetPricesAcrossHalvings(c *gin.Context) {
	records, err := h.priceService.RecordsForAllHalvings(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get prices across halvings", zap.Error(err))
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"prices": records})
}

// GetStatistics handles retrieving summary statistics over stored prices
// GET /api/v1/prices/stats
func (h *PriceHandler) GetStatistics(c *gin.Context) {
	stats, err := h.priceService.Statistics(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get price statistics", zap.Error(err))
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
