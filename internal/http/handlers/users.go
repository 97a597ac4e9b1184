package handlers

import (
	"net/http"

	"shopadmin/internal/http/middleware"
	"shopadmin/internal/repositories"
	"shopadmin/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/users
func (h *Handlers) ListUsers(c *gin.Context) {
	order, page, ok := h.listParams(c)
	if !ok {
		return
	}
	f := repositories.UserFilter{
		Username: c.Query("username"),
		Email:    c.Query("email"),
		Role:     c.Query("role"),
		Status:   c.Query("status"),
	}
	p, err := h.Users.List(c.Request.Context(), f, order, page)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	respondPage(c, p)
}

// GET /api/users/:id
func (h *Handlers) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	u, err := h.Users.Get(c.Request.Context(), id)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// POST /api/users
func (h *Handlers) CreateUser(c *gin.Context) {
	var in services.CreateUserInput
	if !BindJSONOrError(c, &in) {
		return
	}
	u, err := h.Users.Create(c.Request.Context(), middleware.Actor(c), in)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// PUT /api/users/:id
func (h *Handlers) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.UpdateUserInput
	if !BindJSONOrError(c, &in) {
		return
	}
	u, err := h.Users.Update(c.Request.Context(), middleware.Actor(c), id, in)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// DELETE /api/users/:id
func (h *Handlers) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Users.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		h.RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
