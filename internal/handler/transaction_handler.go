package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type TransactionHandler struct {
	transactionService service.TransactionService
}

func NewTransactionHandler(transactionService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

func (h *TransactionHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleApprover, model.RoleStaff)
	approverOnly := middleware.RequireRole(model.RoleAdmin, model.RoleApprover)

	transactions := router.Group("/api/transactions")
	{
		transactions.GET("", anyRole, h.ListTransactions)
		transactions.PUT("/:id/submit", anyRole, h.SubmitTransaction)
		transactions.PUT("/:id/approve", approverOnly, h.ApproveTransaction)
		transactions.PUT("/:id/reject", approverOnly, h.RejectTransaction)
	}

	router.GET("/api/assets/:asset_id/transactions", anyRole, h.ListByAsset)
	router.POST("/api/assets/:asset_id/transactions", anyRole, h.CreateTransaction)
}

// ListTransactions returns all sales/disposal transactions with gain/loss
// @Summary      List transactions
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.TransactionView}
// @Failure      500  {object}  response.Response
// @Router       /api/transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	txs, err := h.transactionService.ListTransactions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, txs))
}

// ListByAsset returns the transactions of one asset
func (h *TransactionHandler) ListByAsset(c *gin.Context) {
	txs, err := h.transactionService.ListByAsset(c.Request.Context(), c.Param("asset_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, txs))
}

// CreateTransaction records a sale/disposal against an asset
// @Summary      Create transaction
// @Description  Records a sale or disposal, freezing the asset's current book value. With send_approval=true the transaction is queued for approval immediately.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        asset_id  path      string                           true  "Asset ID"
// @Param        payload   body      service.CreateTransactionRequest true  "Create Transaction Payload"
// @Success      201       {object}  response.Response{data=model.SalesTransaction}
// @Failure      400       {object}  response.Response
// @Router       /api/assets/{asset_id}/transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req service.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	tx, err := h.transactionService.CreateTransaction(c.Request.Context(), actorID(c), c.Param("asset_id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, tx))
}

// SubmitTransaction moves a draft transaction into the approval queue
// @Summary      Submit transaction
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Transaction ID"
// @Success      200  {object}  response.Response{data=model.SalesTransaction}
// @Failure      400  {object}  response.Response
// @Router       /api/transactions/{id}/submit [put]
func (h *TransactionHandler) SubmitTransaction(c *gin.Context) {
	tx, err := h.transactionService.SubmitTransaction(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tx))
}

// ApproveTransaction finalizes a pending transaction
// @Summary      Approve transaction
// @Description  Approves a pending transaction and cascades the asset's status to Sold or Disposed.
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Transaction ID"
// @Success      200  {object}  response.Response{data=model.SalesTransaction}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /api/transactions/{id}/approve [put]
func (h *TransactionHandler) ApproveTransaction(c *gin.Context) {
	tx, err := h.transactionService.ApproveTransaction(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tx))
}

// RejectTransaction declines a pending transaction
// @Summary      Reject transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string         true   "Transaction ID"
// @Param        payload  body      rejectRequest  false  "Rejection reason"
// @Success      200      {object}  response.Response{data=model.SalesTransaction}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/transactions/{id}/reject [put]
func (h *TransactionHandler) RejectTransaction(c *gin.Context) {
	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Allow empty body — reason is optional
		req.Reason = ""
	}

	tx, err := h.transactionService.RejectTransaction(c.Request.Context(), actorID(c), c.Param("id"), req.Reason)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tx))
}
