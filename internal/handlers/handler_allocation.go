package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbooks/bookkeeping_backend/internal/core/ports/services"
	"github.com/openbooks/bookkeeping_backend/internal/dto"
	"github.com/openbooks/bookkeeping_backend/internal/middleware"
)

// allocationHandler handles HTTP requests related to allocations.
type allocationHandler struct {
	allocationService portssvc.AllocationSvcFacade
}

// newAllocationHandler creates a new allocationHandler.
func newAllocationHandler(allocationService portssvc.AllocationSvcFacade) *allocationHandler {
	return &allocationHandler{allocationService: allocationService}
}

func registerAllocationRoutes(addressGroup *gin.RouterGroup, allocationService portssvc.AllocationSvcFacade) {
	h := newAllocationHandler(allocationService)

	allocations := addressGroup.Group("/allocations")
	{
		allocations.POST("", h.createAllocation)
		allocations.GET("", h.listAllocations)
		allocations.GET("/:allocationID", h.getAllocation)
		allocations.DELETE("/:allocationID", h.deleteAllocation)
	}
}

// createAllocation godoc
// @Summary Create an allocation
// @Description Settles outstanding balances across two or more transactions; the signed amounts must total zero
// @Tags allocations
// @Accept  json
// @Produce  json
// @Param   addressID path string true "Address ID"
// @Param   allocation body dto.CreateAllocationRequest true "Allocation entries"
// @Success 201 {object} dto.AllocationResponse
// @Failure 409 {object} map[string]string "Outstanding balance changed concurrently"
// @Failure 422 {object} map[string]string "Business rule violation"
// @Router /addresses/{addressID}/allocations [post]
func (h *allocationHandler) createAllocation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	addressID, userID, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.CreateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createAllocation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	alloc, err := h.allocationService.CreateAllocation(c.Request.Context(), addressID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "create allocation")
		return
	}

	logger.Info("Allocation created", slog.String("allocation_id", alloc.AllocationID))
	c.JSON(http.StatusCreated, dto.ToAllocationResponse(alloc))
}

// getAllocation godoc
// @Summary Get an allocation
// @Tags allocations
// @Produce  json
// @Param   addressID path string true "Address ID"
// @Param   allocationID path string true "Allocation ID"
// @Success 200 {object} dto.AllocationResponse
// @Failure 404 {object} map[string]string "Allocation not found"
// @Router /addresses/{addressID}/allocations/{allocationID} [get]
func (h *allocationHandler) getAllocation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	addressID, _, ok := requestScope(c)
	if !ok {
		return
	}

	alloc, err := h.allocationService.GetAllocation(c.Request.Context(), addressID, c.Param("allocationID"))
	if err != nil {
		respondServiceError(c, logger, err, "retrieve allocation")
		return
	}
	c.JSON(http.StatusOK, dto.ToAllocationResponse(alloc))
}

// listAllocations godoc
// @Summary List allocations
// @Tags allocations
// @Produce  json
// @Param   addressID path string true "Address ID"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListAllocationsResponse
// @Router /addresses/{addressID}/allocations [get]
func (h *allocationHandler) listAllocations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	addressID, _, ok := requestScope(c)
	if !ok {
		return
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit: " + limitStr})
			return
		}
		limit = parsed
	}
	var nextToken *string
	if t := c.Query("nextToken"); t != "" {
		nextToken = &t
	}

	resp, err := h.allocationService.ListAllocations(c.Request.Context(), addressID, limit, nextToken)
	if err != nil {
		respondServiceError(c, logger, err, "list allocations")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// deleteAllocation godoc
// @Summary Delete an allocation
// @Description Removes a settlement, restoring every consumed outstanding balance exactly
// @Tags allocations
// @Produce  json
// @Param   addressID path string true "Address ID"
// @Param   allocationID path string true "Allocation ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Allocation not found"
// @Router /addresses/{addressID}/allocations/{allocationID} [delete]
func (h *allocationHandler) deleteAllocation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	addressID, userID, ok := requestScope(c)
	if !ok {
		return
	}

	allocationID := c.Param("allocationID")
	if err := h.allocationService.DeleteAllocation(c.Request.Context(), addressID, allocationID, userID); err != nil {
		respondServiceError(c, logger, err, "delete allocation")
		return
	}

	logger.Info("Allocation deleted", slog.String("allocation_id", allocationID))
	c.Status(http.StatusNoContent)
}
