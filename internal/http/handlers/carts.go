package handlers

import (
	"errors"
	"io"
	"net/http"

	"shopadmin/internal/http/middleware"
	"shopadmin/internal/query"
	"shopadmin/internal/repositories"
	"shopadmin/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/carts
func (h *Handlers) ListCarts(c *gin.Context) {
	order, page, ok := h.listParams(c)
	if !ok {
		return
	}
	userID, err := queryUint(c, "userId")
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	p, err := h.Carts.List(c.Request.Context(), middleware.Actor(c), repositories.CartFilter{UserID: userID}, order, page)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	respondPage(c, p)
}

// GET /api/carts/:id?itemsOrder=lineTotal desc
func (h *Handlers) GetCart(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := query.ParseOrder(c.Query("itemsOrder"))
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	view, err := h.Carts.Get(c.Request.Context(), middleware.Actor(c), id, order)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /api/carts
func (h *Handlers) CreateCart(c *gin.Context) {
	var in services.CreateCartInput
	// the body is optional; chunked requests report ContentLength -1
	if c.Request.ContentLength != 0 && c.Request.Body != nil && c.Request.Body != http.NoBody {
		if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
			respondBindError(c, err)
			return
		}
	}
	view, err := h.Carts.Create(c.Request.Context(), middleware.Actor(c), in)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// POST /api/carts/:id/items
func (h *Handlers) AddCartItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.AddItemInput
	if !BindJSONOrError(c, &in) {
		return
	}
	view, err := h.Carts.AddItem(c.Request.Context(), middleware.Actor(c), id, in)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// PUT /api/carts/:id/items/:itemId
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	var in services.SetQuantityInput
	if !BindJSONOrError(c, &in) {
		return
	}
	view, err := h.Carts.SetItemQuantity(c.Request.Context(), middleware.Actor(c), id, itemID, in)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DELETE /api/carts/:id/items/:itemId
func (h *Handlers) DeleteCartItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	view, err := h.Carts.RemoveItem(c.Request.Context(), middleware.Actor(c), id, itemID)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DELETE /api/carts/:id
func (h *Handlers) DeleteCart(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Carts.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		h.RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/carts/:id/invoice
func (h *Handlers) CartInvoice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	pdf, filename, err := h.Invoices.CartInvoice(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
