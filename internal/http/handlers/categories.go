package handlers

import (
	"net/http"

	"shopadmin/internal/http/middleware"
	"shopadmin/internal/repositories"
	"shopadmin/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/categories
func (h *Handlers) ListCategories(c *gin.Context) {
	order, page, ok := h.listParams(c)
	if !ok {
		return
	}
	p, err := h.Categories.List(c.Request.Context(), repositories.CategoryFilter{Name: c.Query("name")}, order, page)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	respondPage(c, p)
}

// GET /api/categories/:id
func (h *Handlers) GetCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	cat, err := h.Categories.Get(c.Request.Context(), id)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

// POST /api/categories
func (h *Handlers) CreateCategory(c *gin.Context) {
	var in services.CategoryInput
	if !BindJSONOrError(c, &in) {
		return
	}
	cat, err := h.Categories.Create(c.Request.Context(), middleware.Actor(c), in)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

// PUT /api/categories/:id
func (h *Handlers) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.UpdateCategoryInput
	if !BindJSONOrError(c, &in) {
		return
	}
	cat, err := h.Categories.Update(c.Request.Context(), middleware.Actor(c), id, in)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

// DELETE /api/categories/:id
func (h *Handlers) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Categories.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		h.RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
