package handlers

import (
	"net/http"

	"shopadmin/internal/http/middleware"
	"shopadmin/internal/services"

	"github.com/gin-gonic/gin"
)

// POST /api/auth/register
func (h *Handlers) Register(c *gin.Context) {
	var in services.RegisterInput
	if !BindJSONOrError(c, &in) {
		return
	}
	u, err := h.Auth.Register(c.Request.Context(), middleware.Actor(c), in)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// POST /api/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var in services.LoginInput
	if !BindJSONOrError(c, &in) {
		return
	}
	res, err := h.Auth.Login(c.Request.Context(), middleware.Actor(c), in)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/auth/me
func (h *Handlers) Me(c *gin.Context) {
	u, err := h.Users.Get(c.Request.Context(), middleware.Actor(c).UserID)
	if err != nil {
		h.RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
