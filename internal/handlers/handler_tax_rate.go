package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbooks/bookkeeping_backend/internal/core/ports/services"
	"github.com/openbooks/bookkeeping_backend/internal/dto"
	"github.com/openbooks/bookkeeping_backend/internal/middleware"
)

// taxRateHandler handles HTTP requests related to tax rates.
type taxRateHandler struct {
	taxRateService portssvc.TaxRateSvcFacade
}

// newTaxRateHandler creates a new taxRateHandler.
func newTaxRateHandler(taxRateService portssvc.TaxRateSvcFacade) *taxRateHandler {
	return &taxRateHandler{taxRateService: taxRateService}
}

func registerTaxRateRoutes(addressGroup *gin.RouterGroup, taxRateService portssvc.TaxRateSvcFacade) {
	h := newTaxRateHandler(taxRateService)

	rates := addressGroup.Group("/tax-rates")
	{
		rates.POST("", h.createTaxRate)
		rates.GET("", h.listTaxRates)
		rates.PUT("/:taxRateID", h.updateTaxRate)
		rates.DELETE("/:taxRateID", h.deactivateTaxRate)
	}
}

// createTaxRate godoc
// @Summary Create a tax rate
// @Tags tax-rates
// @Accept  json
// @Produce  json
// @Param   addressID path string true "Address ID"
// @Param   rate body dto.CreateTaxRateRequest true "Tax rate details"
// @Success 201 {object} dto.TaxRateResponse
// @Failure 400 {object} map[string]string "Percent out of range"
// @Router /addresses/{addressID}/tax-rates [post]
func (h *taxRateHandler) createTaxRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	addressID, userID, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.CreateTaxRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createTaxRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	rate, err := h.taxRateService.CreateTaxRate(c.Request.Context(), addressID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "create tax rate")
		return
	}

	logger.Info("Tax rate created", slog.String("tax_rate_id", rate.TaxRateID))
	c.JSON(http.StatusCreated, dto.ToTaxRateResponse(rate))
}

// listTaxRates godoc
// @Summary List the address's tax rates
// @Tags tax-rates
// @Produce  json
// @Param   addressID path string true "Address ID"
// @Success 200 {array} dto.TaxRateResponse
// @Router /addresses/{addressID}/tax-rates [get]
func (h *taxRateHandler) listTaxRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	addressID, _, ok := requestScope(c)
	if !ok {
		return
	}

	rates, err := h.taxRateService.ListTaxRates(c.Request.Context(), addressID)
	if err != nil {
		respondServiceError(c, logger, err, "list tax rates")
		return
	}
	c.JSON(http.StatusOK, dto.ToTaxRateResponses(rates))
}

// updateTaxRate godoc
// @Summary Update a tax rate
// @Description Edits a rate going forward; percents already snapshotted into line entries are unaffected
// @Tags tax-rates
// @Accept  json
// @Produce  json
// @Param   addressID path string true "Address ID"
// @Param   taxRateID path string true "Tax rate ID"
// @Param   update body dto.UpdateTaxRateRequest true "Fields to update"
// @Success 200 {object} dto.TaxRateResponse
// @Failure 404 {object} map[string]string "Tax rate not found"
// @Router /addresses/{addressID}/tax-rates/{taxRateID} [put]
func (h *taxRateHandler) updateTaxRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	addressID, userID, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.UpdateTaxRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateTaxRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	rate, err := h.taxRateService.UpdateTaxRate(c.Request.Context(), addressID, c.Param("taxRateID"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "update tax rate")
		return
	}
	c.JSON(http.StatusOK, dto.ToTaxRateResponse(rate))
}

// deactivateTaxRate godoc
// @Summary Deactivate a tax rate
// @Tags tax-rates
// @Produce  json
// @Param   addressID path string true "Address ID"
// @Param   taxRateID path string true "Tax rate ID"
// @Success 204 "Deactivated"
// @Failure 404 {object} map[string]string "Tax rate not found"
// @Router /addresses/{addressID}/tax-rates/{taxRateID} [delete]
func (h *taxRateHandler) deactivateTaxRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	addressID, userID, ok := requestScope(c)
	if !ok {
		return
	}

	taxRateID := c.Param("taxRateID")
	if err := h.taxRateService.DeactivateTaxRate(c.Request.Context(), addressID, taxRateID, userID); err != nil {
		respondServiceError(c, logger, err, "deactivate tax rate")
		return
	}

	logger.Info("Tax rate deactivated", slog.String("tax_rate_id", taxRateID))
	c.Status(http.StatusNoContent)
}
