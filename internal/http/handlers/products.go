package handlers

import (
	"net/http"

	"shopadmin/internal/http/middleware"
	"shopadmin/internal/repositories"
	"shopadmin/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/products
func (h *Handlers) ListProducts(c *gin.Context) {
	order, page, ok := h.listParams(c)
	if !ok {
		return
	}
	f := repositories.ProductFilter{Title: c.Query("title")}
	var err error
	if f.CategoryID, err = queryUint(c, "categoryId"); err != nil {
		h.RespondDomainError(c, err)
		return
	}
	if f.MinPrice, err = queryDecimal(c, "minPrice"); err != nil {
		h.RespondDomainError(c, err)
		return
	}
	if f.MaxPrice, err = queryDecimal(c, "maxPrice"); err != nil {
		h.RespondDomainError(c, err)
		return
	}

	p, err := h.Products.List(c.Request.Context(), f, order, page)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	respondPage(c, p)
}

// GET /api/products/:id
func (h *Handlers) GetProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.Products.Get(c.Request.Context(), id)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// POST /api/products
func (h *Handlers) CreateProduct(c *gin.Context) {
	var in services.ProductInput
	if !BindJSONOrError(c, &in) {
		return
	}
	p, err := h.Products.Create(c.Request.Context(), middleware.Actor(c), in)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// PUT /api/products/:id
func (h *Handlers) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.UpdateProductInput
	if !BindJSONOrError(c, &in) {
		return
	}
	p, err := h.Products.Update(c.Request.Context(), middleware.Actor(c), id, in)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DELETE /api/products/:id
func (h *Handlers) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Products.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		h.RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
