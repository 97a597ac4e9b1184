package repositories

import (
	"shopadmin/internal/domain"
	"shopadmin/internal/domain/models"
	"shopadmin/internal/query"

	"github.com/shopspring/decimal"
)

var UserOrdering = query.NewRegistry[models.User]().
	Add("id", "id", query.By(func(u models.User) uint { return u.ID })).
	Add("name", "name", query.ByFold(func(u models.User) string { return u.Name })).
	Add("username", "username", query.ByFold(func(u models.User) string { return u.Username })).
	Add("email", "email", query.ByFold(func(u models.User) string { return u.Email })).
	Add("role", "role", query.By(func(u models.User) string { return u.Role })).
	Add("status", "status", query.By(func(u models.User) string { return u.Status })).
	Add("createdAt", "created_at", func(a, b models.User) int { return a.CreatedAt.Compare(b.CreatedAt) }).
	Add("updatedAt", "updated_at", func(a, b models.User) int { return a.UpdatedAt.Compare(b.UpdatedAt) })

var CategoryOrdering = query.NewRegistry[models.Category]().
	Add("id", "id", query.By(func(c models.Category) uint { return c.ID })).
	Add("name", "name", query.ByFold(func(c models.Category) string { return c.Name })).
	Add("createdAt", "created_at", func(a, b models.Category) int { return a.CreatedAt.Compare(b.CreatedAt) }).
	Add("updatedAt", "updated_at", func(a, b models.Category) int { return a.UpdatedAt.Compare(b.UpdatedAt) })

var ProductOrdering = query.NewRegistry[models.Product]().
	Add("id", "id", query.By(func(p models.Product) uint { return p.ID })).
	Add("title", "title", query.ByFold(func(p models.Product) string { return p.Title })).
	Add("price", "price", func(a, b models.Product) int { return a.Price.Cmp(b.Price) }).
	Add("stock", "stock", query.By(func(p models.Product) int { return p.Stock })).
	Add("categoryId", "category_id", query.By(func(p models.Product) uint { return p.CategoryID })).
	Add("createdAt", "created_at", func(a, b models.Product) int { return a.CreatedAt.Compare(b.CreatedAt) }).
	Add("updatedAt", "updated_at", func(a, b models.Product) int { return a.UpdatedAt.Compare(b.UpdatedAt) })

var CartOrdering = query.NewRegistry[models.Cart]().
	Add("id", "id", query.By(func(c models.Cart) uint { return c.ID })).
	Add("userId", "user_id", query.By(func(c models.Cart) uint { return c.UserID })).
	Add("createdAt", "created_at", func(a, b models.Cart) int { return a.CreatedAt.Compare(b.CreatedAt) }).
	Add("updatedAt", "updated_at", func(a, b models.Cart) int { return a.UpdatedAt.Compare(b.UpdatedAt) })

// CartItemOrdering sorts loaded cart lines in memory; lineTotal has no column.
var CartItemOrdering = query.NewRegistry[models.CartItem]().
	Add("id", "id", query.By(func(i models.CartItem) uint { return i.ID })).
	Add("productId", "product_id", query.By(func(i models.CartItem) uint { return i.ProductID })).
	Add("unitPrice", "unit_price", func(a, b models.CartItem) int { return a.UnitPrice.Cmp(b.UnitPrice) }).
	Add("quantity", "quantity", query.By(func(i models.CartItem) int { return i.Quantity })).
	Add("createdAt", "created_at", func(a, b models.CartItem) int { return a.CreatedAt.Compare(b.CreatedAt) }).
	Add("lineTotal", "", func(a, b models.CartItem) int { return lineTotalOf(a).Cmp(lineTotalOf(b)) })

func lineTotalOf(i models.CartItem) decimal.Decimal {
	t, err := domain.LineTotal(i.UnitPrice, i.Quantity)
	if err != nil {
		return decimal.Zero
	}
	return t
}
