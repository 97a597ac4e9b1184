package services

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"shopadmin/internal/audit"
	"shopadmin/internal/domain"
	"shopadmin/internal/domain/models"
	"shopadmin/internal/query"
	"shopadmin/internal/repositories"
	"shopadmin/internal/utils"

	"github.com/shopspring/decimal"
)

type CreateCartInput struct {
	UserID *uint `json:"userId" binding:"omitempty,min=1"`
}

type AddItemInput struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1,max=20"`
}

type SetQuantityInput struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=20"`
}

type CartLineView struct {
	ID        uint            `json:"id"`
	ProductID uint            `json:"productId"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Rate      decimal.Decimal `json:"discountRate"`
	Gross     decimal.Decimal `json:"gross"`
	Discount  decimal.Decimal `json:"discount"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type CartView struct {
	ID        uint            `json:"id"`
	UserID    uint            `json:"userId"`
	Items     []CartLineView  `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// CartListItem is the row shape used by cart listings.
type CartListItem struct {
	ID        uint            `json:"id"`
	UserID    uint            `json:"userId"`
	ItemCount int             `json:"itemCount"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type CartService struct {
	Carts    repositories.CartRepository
	Products repositories.ProductRepository
	Users    repositories.UserRepository
	Audit    *audit.Recorder
	Log      *slog.Logger
}

// List scopes non-admin callers to their own carts.
func (s CartService) List(ctx context.Context, rc domain.RequestContext, f repositories.CartFilter, order query.Directive, page query.PageRequest) (query.Page[CartListItem], error) {
	if !rc.IsAdmin() {
		f.UserID = rc.UserID
	}
	p, err := s.Carts.List(ctx, f, order, page)
	if err != nil {
		return query.Page[CartListItem]{}, err
	}
	var priceErr error
	out := query.MapPage(p, func(c models.Cart) CartListItem {
		item := CartListItem{ID: c.ID, UserID: c.UserID, ItemCount: len(c.Items), Total: decimal.Zero, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
		sum, err := priceCart(c.Items)
		if err != nil {
			priceErr = err
			return item
		}
		item.Total = sum.Total
		return item
	})
	if priceErr != nil {
		return query.Page[CartListItem]{}, priceErr
	}
	return out, nil
}

// Get returns the cart with its lines ordered by itemsOrder and priced.
func (s CartService) Get(ctx context.Context, rc domain.RequestContext, id uint, itemsOrder query.Directive) (CartView, error) {
	c, err := s.load(ctx, rc, id)
	if err != nil {
		return CartView{}, err
	}
	items, err := query.Sort(c.Items, repositories.CartItemOrdering, itemsOrder)
	if err != nil {
		return CartView{}, err
	}
	sum, err := priceCart(items)
	if err != nil {
		return CartView{}, err
	}

	view := CartView{
		ID:        c.ID,
		UserID:    c.UserID,
		Items:     make([]CartLineView, 0, len(items)),
		Subtotal:  sum.Subtotal,
		Discount:  sum.Discount,
		Total:     sum.Total,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	for i, it := range items {
		l := sum.Lines[i]
		title := ""
		if it.Product != nil {
			title = it.Product.Title
		}
		view.Items = append(view.Items, CartLineView{
			ID:        it.ID,
			ProductID: it.ProductID,
			Title:     title,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Rate:      l.Rate,
			Gross:     l.Gross,
			Discount:  l.Discount,
			LineTotal: l.Total,
		})
	}
	return view, nil
}

// Create opens an empty cart for the caller; admins may open one for another user.
func (s CartService) Create(ctx context.Context, rc domain.RequestContext, in CreateCartInput) (CartView, error) {
	owner := rc.UserID
	if in.UserID != nil && *in.UserID != rc.UserID {
		if !rc.IsAdmin() {
			return CartView{}, domain.ForbiddenError{Msg: "cannot create a cart for another user"}
		}
		if _, err := s.Users.GetByID(ctx, *in.UserID); err != nil {
			if domain.IsNotFound(err) {
				return CartView{}, domain.ValidationError{Field: "userId", Msg: "unknown user " + strconv.FormatUint(uint64(*in.UserID), 10)}
			}
			return CartView{}, err
		}
		owner = *in.UserID
	}

	c := models.Cart{UserID: owner}
	if err := s.Carts.Create(ctx, &c); err != nil {
		return CartView{}, err
	}
	utils.LogEvent(s.Log, rc.RequestID, "cart", "create", idField(c.ID))
	s.Audit.Record(ctx, rc, audit.ActionCreate, "cart", c.ID)
	return s.Get(ctx, rc, c.ID, nil)
}

// AddItem snapshots the product price on a new line or increments the existing one.
// The cart row stays locked from read to write so concurrent adds cannot lose an increment.
func (s CartService) AddItem(ctx context.Context, rc domain.RequestContext, cartID uint, in AddItemInput) (CartView, error) {
	err := s.Carts.WithTx(ctx, func(tx repositories.CartRepository) error {
		c, err := s.loadForUpdate(ctx, tx, rc, cartID)
		if err != nil {
			return err
		}

		it, exists := c.ItemByProduct(in.ProductID)
		if exists {
			if err := it.SetQuantity(it.Quantity + in.Quantity); err != nil {
				return err
			}
		} else {
			p, err := repositories.ProductRepository{DB: tx.DB}.GetByID(ctx, in.ProductID)
			if err != nil {
				if domain.IsNotFound(err) {
					return domain.ValidationError{Field: "productId", Msg: "unknown product " + strconv.FormatUint(uint64(in.ProductID), 10)}
				}
				return err
			}
			it = &models.CartItem{CartID: c.ID, ProductID: p.ID, UnitPrice: p.Price}
			if err := it.SetQuantity(in.Quantity); err != nil {
				return err
			}
		}
		return tx.SaveItem(ctx, it)
	})
	if err != nil {
		return CartView{}, err
	}
	utils.LogEvent(s.Log, rc.RequestID, "cart", "add_item", idField(cartID)+" product="+strconv.FormatUint(uint64(in.ProductID), 10))
	s.Audit.Record(ctx, rc, audit.ActionUpdate, "cart", cartID)
	return s.Get(ctx, rc, cartID, nil)
}

func (s CartService) SetItemQuantity(ctx context.Context, rc domain.RequestContext, cartID, itemID uint, in SetQuantityInput) (CartView, error) {
	err := s.Carts.WithTx(ctx, func(tx repositories.CartRepository) error {
		c, err := s.loadForUpdate(ctx, tx, rc, cartID)
		if err != nil {
			return err
		}
		it, ok := c.Item(itemID)
		if !ok {
			return domain.NotFoundError{Resource: "cart item"}
		}
		if err := it.SetQuantity(in.Quantity); err != nil {
			return err
		}
		return tx.SaveItem(ctx, it)
	})
	if err != nil {
		return CartView{}, err
	}
	utils.LogEvent(s.Log, rc.RequestID, "cart", "set_quantity", idField(cartID))
	s.Audit.Record(ctx, rc, audit.ActionUpdate, "cart", cartID)
	return s.Get(ctx, rc, cartID, nil)
}

func (s CartService) RemoveItem(ctx context.Context, rc domain.RequestContext, cartID, itemID uint) (CartView, error) {
	c, err := s.load(ctx, rc, cartID)
	if err != nil {
		return CartView{}, err
	}
	if err := s.Carts.DeleteItem(ctx, c.ID, itemID); err != nil {
		return CartView{}, err
	}
	utils.LogEvent(s.Log, rc.RequestID, "cart", "remove_item", idField(c.ID))
	s.Audit.Record(ctx, rc, audit.ActionUpdate, "cart", c.ID)
	return s.Get(ctx, rc, c.ID, nil)
}

func (s CartService) Delete(ctx context.Context, rc domain.RequestContext, id uint) error {
	if _, err := s.load(ctx, rc, id); err != nil {
		return err
	}
	if err := s.Carts.Delete(ctx, id); err != nil {
		return err
	}
	utils.LogEvent(s.Log, rc.RequestID, "cart", "delete", idField(id))
	s.Audit.Record(ctx, rc, audit.ActionDelete, "cart", id)
	return nil
}

func (s CartService) load(ctx context.Context, rc domain.RequestContext, id uint) (models.Cart, error) {
	c, err := s.Carts.GetByID(ctx, id)
	if err != nil {
		return models.Cart{}, err
	}
	if !rc.CanAccessOwned(c.UserID) {
		return models.Cart{}, domain.ForbiddenError{Msg: "cart belongs to another user"}
	}
	return c, nil
}

func (s CartService) loadForUpdate(ctx context.Context, tx repositories.CartRepository, rc domain.RequestContext, id uint) (models.Cart, error) {
	c, err := tx.GetForUpdate(ctx, id)
	if err != nil {
		return models.Cart{}, err
	}
	if !rc.CanAccessOwned(c.UserID) {
		return models.Cart{}, domain.ForbiddenError{Msg: "cart belongs to another user"}
	}
	return c, nil
}

func priceCart(items []models.CartItem) (domain.CartSummary, error) {
	c := models.Cart{Items: items}
	lines, err := c.Lines()
	if err != nil {
		return domain.CartSummary{}, err
	}
	return domain.PriceLines(lines)
}
