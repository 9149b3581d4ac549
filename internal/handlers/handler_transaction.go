package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/openbooks/bookkeeping_backend/internal/core/domain"
	portssvc "github.com/openbooks/bookkeeping_backend/internal/core/ports/services"
	"github.com/openbooks/bookkeeping_backend/internal/dto"
	"github.com/openbooks/bookkeeping_backend/internal/middleware"
)

// transactionHandler handles HTTP requests related to ledger transactions.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(transactionService portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{transactionService: transactionService}
}

func registerTransactionRoutes(addressGroup *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	txns := addressGroup.Group("/transactions")
	{
		txns.POST("/:txnType", h.createTransaction)
		txns.POST("/contra", h.createContra)
		txns.GET("", h.listTransactions)
		txns.GET("/outstanding", h.listOutstanding)
		txns.GET("/:txnType/:tsn", h.getTransactionByTSN)
		txns.GET("/id/:transactionID", h.getTransaction)
		txns.PUT("/id/:transactionID", h.updateTransaction)
		txns.DELETE("/id/:transactionID", h.deleteTransaction)
	}
}

// createTransaction godoc
// @Summary Create a transaction
// @Description Prices, taxes, balances and persists one transaction of the type named in the URL
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   addressID path string true "Address ID"
// @Param   txnType path string true "Transaction type code"
// @Param   transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse "Created transaction with assigned TSN"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 422 {object} map[string]string "Business rule violation"
// @Router /addresses/{addressID}/transactions/{txnType} [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	addressID, userID, ok := requestScope(c)
	if !ok {
		return
	}

	txnType := domain.TxnType(c.Param("txnType"))
	if !txnType.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown transaction type: " + c.Param("txnType")})
		return
	}

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	txn, err := h.transactionService.CreateTransaction(c.Request.Context(), addressID, txnType, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "create transaction")
		return
	}

	logger.Info("Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("txn_type", string(txn.TxnType)),
		slog.Int64("tsn", txn.TSN))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// createContra godoc
// @Summary Mirror a counterparty transaction
// @Description Creates the caller's side of an already-posted counterparty transaction and links the two
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   addressID path string true "Address ID"
// @Param   contra body dto.CreateContraRequest true "Contra details"
// @Success 201 {object} dto.TransactionResponse "Created mirror transaction"
// @Failure 409 {object} map[string]string "Source already has a contra"
// @Failure 422 {object} map[string]string "Lines do not match the source"
// @Router /addresses/{addressID}/transactions/contra [post]
func (h *transactionHandler) createContra(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	addressID, userID, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.CreateContraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createContra", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	txn, err := h.transactionService.CreateContra(c.Request.Context(), addressID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "create contra transaction")
		return
	}

	logger.Info("Contra transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("source_transaction_id", req.SourceTransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Tags transactions
// @Produce  json
// @Param   addressID path string true "Address ID"
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Router /addresses/{addressID}/transactions/id/{transactionID} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	addressID, _, ok := requestScope(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.GetTransaction(c.Request.Context(), addressID, c.Param("transactionID"))
	if err != nil {
		respondServiceError(c, logger, err, "retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// getTransactionByTSN godoc
// @Summary Get a transaction by type and sequence number
// @Tags transactions
// @Produce  json
// @Param   addressID path string true "Address ID"
// @Param   txnType path string true "Transaction type code"
// @Param   tsn path int true "Transaction sequence number"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Router /addresses/{addressID}/transactions/{txnType}/{tsn} [get]
func (h *transactionHandler) getTransactionByTSN(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	addressID, _, ok := requestScope(c)
	if !ok {
		return
	}

	txnType := domain.TxnType(c.Param("txnType"))
	if !txnType.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown transaction type: " + c.Param("txnType")})
		return
	}
	tsn, err := strconv.ParseInt(c.Param("tsn"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid TSN: " + c.Param("tsn")})
		return
	}

	txn, err := h.transactionService.GetTransactionByTSN(c.Request.Context(), addressID, txnType, tsn)
	if err != nil {
		respondServiceError(c, logger, err, "retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions
// @Description Lists transaction headers for an address, filtered and token-paginated
// @Tags transactions
// @Produce  json
// @Param   addressID path string true "Address ID"
// @Param   otherAddressID query string false "Counterparty filter"
// @Param   txnType query string false "Transaction type filter"
// @Param   dateFrom query string false "Start date (YYYY-MM-DD)"
// @Param   dateTo query string false "End date (YYYY-MM-DD)"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListTransactionsResponse
// @Router /addresses/{addressID}/transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	addressID, _, ok := requestScope(c)
	if !ok {
		return
	}

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for listTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.transactionService.ListTransactions(c.Request.Context(), addressID, params)
	if err != nil {
		respondServiceError(c, logger, err, "list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// listOutstanding godoc
// @Summary List outstanding transactions
// @Description Lists transactions with a non-zero unallocated balance against one counterparty
// @Tags transactions
// @Produce  json
// @Param   addressID path string true "Address ID"
// @Param   otherAddressID query string true "Counterparty address ID"
// @Param   direction query string true "Ledger direction: sales or purchases"
// @Success 200 {array} dto.TransactionResponse
// @Router /addresses/{addressID}/transactions/outstanding [get]
func (h *transactionHandler) listOutstanding(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	addressID, _, ok := requestScope(c)
	if !ok {
		return
	}

	otherAddressID := c.Query("otherAddressID")
	if otherAddressID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "otherAddressID is required"})
		return
	}
	direction := c.Query("direction")
	if direction != "sales" && direction != "purchases" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be 'sales' or 'purchases'"})
		return
	}

	txns, err := h.transactionService.ListOutstanding(c.Request.Context(), addressID, otherAddressID, direction == "sales")
	if err != nil {
		respondServiceError(c, logger, err, "list outstanding transactions")
		return
	}
	c.JSON(http.StatusOK, txns)
}

// updateTransaction godoc
// @Summary Update transaction metadata
// @Description Updates narrative and report template only; blocked once the transaction is contra'd or closed
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   addressID path string true "Address ID"
// @Param   transactionID path string true "Transaction ID"
// @Param   update body dto.UpdateTransactionRequest true "Fields to update"
// @Success 200 {object} dto.TransactionResponse
// @Failure 422 {object} map[string]string "Transaction is locked"
// @Router /addresses/{addressID}/transactions/id/{transactionID} [put]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	addressID, userID, ok := requestScope(c)
	if !ok {
		return
	}

	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	txn, err := h.transactionService.UpdateTransaction(c.Request.Context(), addressID, c.Param("transactionID"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "update transaction")
		return
	}

	logger.Info("Transaction updated", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Soft-marks a transaction deleted; blocked once contra'd, allocated or closed
// @Tags transactions
// @Produce  json
// @Param   addressID path string true "Address ID"
// @Param   transactionID path string true "Transaction ID"
// @Success 204 "Deleted"
// @Failure 422 {object} map[string]string "Transaction is locked"
// @Router /addresses/{addressID}/transactions/id/{transactionID} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	addressID, userID, ok := requestScope(c)
	if !ok {
		return
	}

	transactionID := c.Param("transactionID")
	if err := h.transactionService.DeleteTransaction(c.Request.Context(), addressID, transactionID, userID); err != nil {
		respondServiceError(c, logger, err, "delete transaction")
		return
	}

	logger.Info("Transaction deleted", slog.String("transaction_id", transactionID))
	c.Status(http.StatusNoContent)
}
