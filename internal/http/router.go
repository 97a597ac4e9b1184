package api

import (
	"context"
	"log/slog"
	"net/http"

	"shopadmin/internal/auth"
	"shopadmin/internal/domain"
	h "shopadmin/internal/http/handlers"
	"shopadmin/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

type Options struct {
	Handlers       *h.Handlers
	Tokens         *auth.TokenManager
	Log            *slog.Logger
	AllowedOrigins []string
}

func NewRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(opts.Log), gin.Recovery(), middleware.CORS(opts.AllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		opts.Log.Warn("failed to set trusted proxies", "error", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":      "route not found",
			"code":       "not_found",
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": middleware.GetRequestID(c),
		})
	})

	hd := opts.Handlers
	api := r.Group("/api")
	api.GET("/health", hd.Health)

	// Auth
	authGroup := api.Group("/auth")
	authGroup.POST("/login", hd.Login)
	authGroup.POST("/register", hd.Register)

	authed := api.Group("", middleware.Auth(opts.Tokens), middleware.CurrentAccount(func(ctx context.Context, id uint) (string, string, error) {
		u, err := hd.Users.Get(ctx, id)
		return u.Role, u.Status, err
	}, opts.Log))
	authed.GET("/auth/me", hd.Me)

	admin := authed.Group("", middleware.RequireRoles(domain.RoleAdmin))
	admin.GET("/db-check", hd.DBCheck)
	admin.GET("/routes", hd.Routes)
	admin.GET("/cache-stats", hd.CacheStatus)

	// Users
	users := admin.Group("/users")
	users.GET("", hd.ListUsers)
	users.GET("/:id", hd.GetUser)
	users.POST("", hd.CreateUser)
	users.PUT("/:id", hd.UpdateUser)
	users.DELETE("/:id", hd.DeleteUser)

	// Categories
	authed.GET("/categories", hd.ListCategories)
	authed.GET("/categories/:id", hd.GetCategory)
	admin.POST("/categories", hd.CreateCategory)
	admin.PUT("/categories/:id", hd.UpdateCategory)
	admin.DELETE("/categories/:id", hd.DeleteCategory)

	// Products
	authed.GET("/products", hd.ListProducts)
	authed.GET("/products/:id", hd.GetProduct)
	admin.POST("/products", hd.CreateProduct)
	admin.PUT("/products/:id", hd.UpdateProduct)
	admin.DELETE("/products/:id", hd.DeleteProduct)

	// Carts: ownership is checked per cart
	carts := authed.Group("/carts")
	carts.GET("", hd.ListCarts)
	carts.POST("", hd.CreateCart)
	carts.GET("/:id", hd.GetCart)
	carts.DELETE("/:id", hd.DeleteCart)
	carts.GET("/:id/invoice", hd.CartInvoice)
	carts.POST("/:id/items", hd.AddCartItem)
	carts.PUT("/:id/items/:itemId", hd.UpdateCartItem)
	carts.DELETE("/:id/items/:itemId", hd.DeleteCartItem)

	hd.SetRouter(r)
	return r
}
