package handlers

import (
	"log/slog"
	"sync"

	"shopadmin/internal/cache"
	"shopadmin/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Paging struct {
	DefaultSize int
	MaxSize     int
}

// Handlers holds the services behind every REST endpoint.
type Handlers struct {
	DB         *gorm.DB
	Auth       services.AuthService
	Users      services.UserService
	Categories services.CategoryService
	Products   services.ProductService
	Carts      services.CartService
	Invoices   services.InvoiceService
	Paging     Paging
	Log        *slog.Logger

	// Cache is nil when products are served without Redis.
	Cache *cache.Cache

	routerMu sync.RWMutex
	router   *gin.Engine
}

func New(h *Handlers) *Handlers {
	registerValidators()
	if h.Log == nil {
		h.Log = slog.Default()
	}
	return h
}
