package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbooks/bookkeeping_backend/internal/core/ports/services"
	"github.com/openbooks/bookkeeping_backend/internal/dto"
	"github.com/openbooks/bookkeeping_backend/internal/middleware"
)

// checkpointHandler handles HTTP requests related to period-close checkpoints.
type checkpointHandler struct {
	checkpointService portssvc.CheckpointSvcFacade
}

// newCheckpointHandler creates a new checkpointHandler.
func newCheckpointHandler(checkpointService portssvc.CheckpointSvcFacade) *checkpointHandler {
	return &checkpointHandler{checkpointService: checkpointService}
}

func registerCheckpointRoutes(addressGroup *gin.RouterGroup, checkpointService portssvc.CheckpointSvcFacade) {
	h := newCheckpointHandler(checkpointService)

	checkpoints := addressGroup.Group("/checkpoints")
	{
		checkpoints.POST("", h.createCheckpoint)
		checkpoints.GET("", h.listCheckpoints)
		checkpoints.DELETE("/:checkpointID", h.deleteCheckpoint)
	}
}

// createCheckpoint godoc
// @Summary Close a period
// @Description Verifies debit/credit equality over the closing window and freezes all transactions up to the date
// @Tags checkpoints
// @Accept  json
// @Produce  json
// @Param   addressID path string true "Address ID"
// @Param   checkpoint body dto.CreateCheckpointRequest true "Checkpoint date and year-end flag"
// @Success 201 {object} dto.CheckpointResponse
// @Failure 422 {object} map[string]string "Date out of order"
// @Failure 500 {object} map[string]string "Ledger integrity check failed (unbalanced window or suspense not cleared)"
// @Router /addresses/{addressID}/checkpoints [post]
func (h *checkpointHandler) createCheckpoint(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	addressID, userID, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.CreateCheckpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createCheckpoint", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	cp, err := h.checkpointService.CreateCheckpoint(c.Request.Context(), addressID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "create checkpoint")
		return
	}

	logger.Info("Checkpoint created",
		slog.String("checkpoint_id", cp.CheckpointID),
		slog.Bool("is_year_end", cp.IsYearEnd))
	c.JSON(http.StatusCreated, dto.ToCheckpointResponse(cp))
}

// listCheckpoints godoc
// @Summary List checkpoints
// @Tags checkpoints
// @Produce  json
// @Param   addressID path string true "Address ID"
// @Success 200 {array} dto.CheckpointResponse
// @Router /addresses/{addressID}/checkpoints [get]
func (h *checkpointHandler) listCheckpoints(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	addressID, _, ok := requestScope(c)
	if !ok {
		return
	}

	cps, err := h.checkpointService.ListCheckpoints(c.Request.Context(), addressID)
	if err != nil {
		respondServiceError(c, logger, err, "list checkpoints")
		return
	}
	c.JSON(http.StatusOK, dto.ToCheckpointResponses(cps))
}

// deleteCheckpoint godoc
// @Summary Reopen a period
// @Description Deletes the most recent checkpoint; year-end checkpoints are permanent
// @Tags checkpoints
// @Produce  json
// @Param   addressID path string true "Address ID"
// @Param   checkpointID path string true "Checkpoint ID"
// @Success 204 "Deleted"
// @Failure 422 {object} map[string]string "Not the most recent checkpoint, or a year end"
// @Router /addresses/{addressID}/checkpoints/{checkpointID} [delete]
func (h *checkpointHandler) deleteCheckpoint(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	addressID, userID, ok := requestScope(c)
	if !ok {
		return
	}

	checkpointID := c.Param("checkpointID")
	if err := h.checkpointService.DeleteCheckpoint(c.Request.Context(), addressID, checkpointID, userID); err != nil {
		respondServiceError(c, logger, err, "delete checkpoint")
		return
	}

	logger.Info("Checkpoint deleted", slog.String("checkpoint_id", checkpointID))
	c.Status(http.StatusNoContent)
}
