package payment

import (
	"errors"
	"net/http"
	"strconv"

	"servimarket/internal/api"
	"servimarket/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type PurchaseRequest struct {
	QZAmount int64 `json:"qz_amount"`
}

type ConfirmRequest struct {
	PaymentReference string `json:"payment_reference"`
}

// Purchase godoc
// @Summary      Create a credit purchase intent
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      PurchaseRequest  true  "Purchase amount in whole QZ"
// @Success      201      {object}  PurchaseResult
// @Failure      400      {object}  api.ErrorResponse
// @Router       /payments/purchase [post]
func (h *Handler) Purchase(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid qz_amount"})
		return
	}

	result, err := h.svc.CreatePurchase(c.Request.Context(), userID, req.QZAmount)
	if err != nil {
		if errors.Is(err, ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid qz_amount"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to create purchase"})
		return
	}

	c.JSON(http.StatusCreated, result)
}

// MockConfirm godoc
// @Summary      Confirm a payment by reference
// @Description  Stand-in for the payment gateway callback. Idempotent: repeated confirmations of the same reference return 404.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request  body      ConfirmRequest  true  "Payment reference"
// @Success      200      {object}  api.OKResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /payments/mock-confirm [post]
func (h *Handler) MockConfirm(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PaymentReference == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "payment_reference required"})
		return
	}

	if err := h.svc.ConfirmPayment(c.Request.Context(), req.PaymentReference); err != nil {
		if errors.Is(err, ErrTransactionNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Transaction not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to confirm payment"})
		return
	}

	c.JSON(http.StatusOK, api.OKResponse{OK: true})
}

// ListTransactions godoc
// @Summary      Caller's purchase history
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query  int  false  "Page size"
// @Param        offset  query  int  false  "Page offset"
// @Success      200 {array} Transaction
// @Router       /payments/transactions [get]
func (h *Handler) ListTransactions(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	txs, err := h.svc.GetTransactions(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load transactions"})
		return
	}

	c.JSON(http.StatusOK, txs)
}
