// internal/handler/transaction.go
package handler

import (
	"net/http"
	"strconv"

	"budget-api/internal/domain"
	"budget-api/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type TransactionHandler struct {
	store storage.TransactionStorage
}

func NewTransactionHandler(store storage.TransactionStorage) *TransactionHandler {
	return &TransactionHandler{store: store}
}

type transactionRequest struct {
	Amount      *decimal.Decimal `json:"amount" validate:"required"`
	CategoryID  int64            `json:"categoryId" validate:"required,gt=0"`
	Type        string           `json:"type" validate:"required,oneof=INCOME EXPENSE"`
	Date        string           `json:"date"` // optional, YYYY-MM-DD; create defaults to today
	Description string           `json:"description"`
}

// data validates the request payload into the storage write shape.
func (r transactionRequest) data() (storage.TransactionData, string) {
	if r.Amount.IsNegative() {
		return storage.TransactionData{}, "amount must not be negative"
	}
	var date domain.Date
	if r.Date != "" {
		parsed, err := domain.ParseDate(r.Date)
		if err != nil {
			return storage.TransactionData{}, err.Error()
		}
		date = parsed
	}
	return storage.TransactionData{
		Amount:      *r.Amount,
		CategoryID:  r.CategoryID,
		Type:        domain.TransactionType(r.Type),
		Date:        date,
		Description: r.Description,
	}, ""
}

func (h *TransactionHandler) Create(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	data, msg := req.data()
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	tx, err := h.store.CreateTransaction(c.Request.Context(), owner, data)
	if err != nil {
		storageError(c, err, "CreateTransaction")
		return
	}
	c.JSON(http.StatusCreated, tx)
}

func (h *TransactionHandler) List(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}
	transactions, err := h.store.Transactions(c.Request.Context(), owner)
	if err != nil {
		storageError(c, err, "Transactions")
		return
	}
	c.JSON(http.StatusOK, transactions)
}

// Filter narrows the caller's transactions by any combination of
// type, categoryId, startDate, and endDate query params.
func (h *TransactionHandler) Filter(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}

	var filter storage.TransactionFilter

	if raw := c.Query("type"); raw != "" {
		typ, err := domain.ParseTransactionType(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter.Type = &typ
	}
	if raw := c.Query("categoryId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid categoryId"})
			return
		}
		filter.CategoryID = &id
	}
	if raw := c.Query("startDate"); raw != "" {
		date, err := domain.ParseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter.StartDate = &date
	}
	if raw := c.Query("endDate"); raw != "" {
		date, err := domain.ParseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter.EndDate = &date
	}

	transactions, err := h.store.FilterTransactions(c.Request.Context(), owner, filter)
	if err != nil {
		storageError(c, err, "FilterTransactions")
		return
	}
	c.JSON(http.StatusOK, transactions)
}

func (h *TransactionHandler) Update(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	data, msg := req.data()
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	if data.Date.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}

	tx, err := h.store.UpdateTransaction(c.Request.Context(), owner, id, data)
	if err != nil {
		storageError(c, err, "UpdateTransaction")
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *TransactionHandler) Delete(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.store.DeleteTransaction(c.Request.Context(), owner, id); err != nil {
		storageError(c, err, "DeleteTransaction")
		return
	}
	c.Status(http.StatusNoContent)
}
