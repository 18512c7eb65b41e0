// internal/handler/budget.go
package handler

import (
	"net/http"
	"strconv"

	"budget-api/internal/domain"
	"budget-api/internal/storage"
	"budget-api/internal/summary"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type BudgetHandler struct {
	store  storage.BudgetStorage
	engine *summary.Engine
}

func NewBudgetHandler(store storage.BudgetStorage, engine *summary.Engine) *BudgetHandler {
	return &BudgetHandler{store: store, engine: engine}
}

type budgetRequest struct {
	Value      *decimal.Decimal `json:"value" validate:"required"`
	Month      string           `json:"month" validate:"required,yearmonth"`
	CategoryID int64            `json:"categoryId" validate:"required,gt=0"`
}

func (r budgetRequest) data() (storage.BudgetData, string) {
	if r.Value.IsNegative() {
		return storage.BudgetData{}, "value must not be negative"
	}
	month, err := domain.ParseYearMonth(r.Month)
	if err != nil {
		return storage.BudgetData{}, err.Error()
	}
	return storage.BudgetData{
		Value:      *r.Value,
		Month:      month,
		CategoryID: r.CategoryID,
	}, ""
}

func (h *BudgetHandler) Create(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}
	var req budgetRequest
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

	budget, err := h.store.CreateBudget(c.Request.Context(), owner, data)
	if err != nil {
		storageError(c, err, "CreateBudget")
		return
	}
	c.JSON(http.StatusCreated, budget)
}

func (h *BudgetHandler) List(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}
	budgets, err := h.store.Budgets(c.Request.Context(), owner)
	if err != nil {
		storageError(c, err, "Budgets")
		return
	}
	c.JSON(http.StatusOK, budgets)
}

func (h *BudgetHandler) GetByID(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	budget, err := h.store.BudgetByID(c.Request.Context(), owner, id)
	if err != nil {
		storageError(c, err, "BudgetByID")
		return
	}
	if budget == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, budget)
}

func (h *BudgetHandler) Update(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req budgetRequest
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

	budget, err := h.store.UpdateBudget(c.Request.Context(), owner, id, data)
	if err != nil {
		storageError(c, err, "UpdateBudget")
		return
	}
	c.JSON(http.StatusOK, budget)
}

func (h *BudgetHandler) Delete(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.store.DeleteBudget(c.Request.Context(), owner, id); err != nil {
		storageError(c, err, "DeleteBudget")
		return
	}
	c.Status(http.StatusNoContent)
}

// Months lists the distinct months that have budgets, newest first.
func (h *BudgetHandler) Months(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}
	months, err := h.store.BudgetMonths(c.Request.Context(), owner)
	if err != nil {
		storageError(c, err, "BudgetMonths")
		return
	}

	views := make([]domain.Month, 0, len(months))
	for _, m := range months {
		views = append(views, m.View())
	}
	c.JSON(http.StatusOK, views)
}

// Exists is the advisory pre-check for one-budget-per-category-and-month.
func (h *BudgetHandler) Exists(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}
	categoryID, err := strconv.ParseInt(c.Query("categoryId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "categoryId query param required"})
		return
	}
	month, err := domain.ParseYearMonth(c.Query("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exists, err := h.store.BudgetExists(c.Request.Context(), owner, categoryID, month)
	if err != nil {
		storageError(c, err, "BudgetExists")
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

func (h *BudgetHandler) Summary(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	s, err := h.engine.BudgetSummary(c.Request.Context(), owner, id)
	if err != nil {
		storageError(c, err, "BudgetSummary")
		return
	}
	c.JSON(http.StatusOK, s)
}

// MonthlySummaries returns the month view plus a summary per budget in
// that month.
func (h *BudgetHandler) MonthlySummaries(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}
	month, err := domain.ParseYearMonth(c.Query("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summaries, err := h.engine.MonthlySummaries(c.Request.Context(), owner, month)
	if err != nil {
		storageError(c, err, "MonthlySummaries")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"month":     month.View(),
		"summaries": summaries,
	})
}
