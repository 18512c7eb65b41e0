// internal/handler/category.go
package handler

import (
	"net/http"

	"budget-api/internal/domain"
	"budget-api/internal/storage"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	store storage.CategoryStorage
}

func NewCategoryHandler(store storage.CategoryStorage) *CategoryHandler {
	return &CategoryHandler{store: store}
}

type categoryRequest struct {
	Name string `json:"name" validate:"required,notblank"`
	Type string `json:"type" validate:"required,oneof=INCOME EXPENSE"`
}

func (h *CategoryHandler) Create(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cat, err := h.store.CreateCategory(c.Request.Context(), owner, req.Name, domain.TransactionType(req.Type))
	if err != nil {
		storageError(c, err, "CreateCategory")
		return
	}
	c.JSON(http.StatusCreated, cat)
}

// List returns all of the caller's categories, optionally narrowed by
// ?type=INCOME|EXPENSE.
func (h *CategoryHandler) List(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}

	if raw := c.Query("type"); raw != "" {
		typ, err := domain.ParseTransactionType(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		categories, err := h.store.CategoriesByType(c.Request.Context(), owner, typ)
		if err != nil {
			storageError(c, err, "CategoriesByType")
			return
		}
		c.JSON(http.StatusOK, categories)
		return
	}

	categories, err := h.store.Categories(c.Request.Context(), owner)
	if err != nil {
		storageError(c, err, "Categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) GetByID(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	cat, err := h.store.CategoryByID(c.Request.Context(), owner, id)
	if err != nil {
		storageError(c, err, "CategoryByID")
		return
	}
	if cat == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cat, err := h.store.UpdateCategory(c.Request.Context(), owner, id, req.Name, domain.TransactionType(req.Type))
	if err != nil {
		storageError(c, err, "UpdateCategory")
		return
	}
	c.JSON(http.StatusOK, cat)
}

// Delete always reports success for absent ids; only a category still
// referenced by transactions or budgets is refused.
func (h *CategoryHandler) Delete(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.store.DeleteCategory(c.Request.Context(), owner, id); err != nil {
		storageError(c, err, "DeleteCategory")
		return
	}
	c.Status(http.StatusNoContent)
}

// Exists is the advisory pre-check the frontend calls before creating a
// category; creation itself still enforces uniqueness atomically.
func (h *CategoryHandler) Exists(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name query param required"})
		return
	}

	exists, err := h.store.CategoryExists(c.Request.Context(), owner, name)
	if err != nil {
		storageError(c, err, "CategoryExists")
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}
