package repositories

import (
	"context"
	"time"

	"shopadmin/internal/domain/models"
	"shopadmin/internal/query"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartFilter struct {
	UserID uint
}

type CartRepository struct {
	DB *gorm.DB
}

// WithTx runs fn against a repository bound to a single transaction.
func (r CartRepository) WithTx(ctx context.Context, fn func(CartRepository) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(CartRepository{DB: tx})
	})
}

func (r CartRepository) List(ctx context.Context, f CartFilter, order query.Directive, page query.PageRequest) (query.Page[models.Cart], error) {
	cols, err := orderColumns(CartOrdering, order)
	if err != nil {
		return query.Page[models.Cart]{}, err
	}
	p, err := FetchPage[models.Cart](ctx, r.DB, ListSpec{
		Filter: func(q *gorm.DB) *gorm.DB {
			if f.UserID != 0 {
				q = q.Where("user_id = ?", f.UserID)
			}
			return q
		},
		Order:   cols,
		Page:    page,
		Preload: []string{"Items"},
	})
	return p, translate(err, "cart")
}

// GetByID loads the cart with its items in insertion order and their products.
func (r CartRepository) GetByID(ctx context.Context, id uint) (models.Cart, error) {
	var c models.Cart
	err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Product").
		First(&c, id).Error
	return c, translate(err, "cart")
}

// GetForUpdate is GetByID plus a row lock on the cart held until the surrounding
// transaction ends. SQLite has no row locks; its single writer serializes instead.
func (r CartRepository) GetForUpdate(ctx context.Context, id uint) (models.Cart, error) {
	var c models.Cart
	err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Product").
		First(&c, id).Error
	return c, translate(err, "cart")
}

func (r CartRepository) Create(ctx context.Context, c *models.Cart) error {
	return translate(r.DB.WithContext(ctx).Create(c).Error, "cart")
}

// SaveItem inserts or updates a line. Quantity bounds are checked by the model hook.
func (r CartRepository) SaveItem(ctx context.Context, it *models.CartItem) error {
	err := r.DB.WithContext(ctx).Omit("Product").Save(it).Error
	if err != nil {
		return translate(err, "cart item")
	}
	return translate(r.touch(ctx, it.CartID), "cart")
}

func (r CartRepository) DeleteItem(ctx context.Context, cartID, itemID uint) error {
	res := r.DB.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}, itemID)
	if res.Error != nil {
		return translate(res.Error, "cart item")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "cart item")
	}
	return translate(r.touch(ctx, cartID), "cart")
}

// Delete removes the cart and its lines.
func (r CartRepository) Delete(ctx context.Context, id uint) error {
	return r.WithTx(ctx, func(tx CartRepository) error {
		if err := tx.DB.Where("cart_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return translate(err, "cart item")
		}
		res := tx.DB.Delete(&models.Cart{}, id)
		if res.Error != nil {
			return translate(res.Error, "cart")
		}
		if res.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound, "cart")
		}
		return nil
	})
}

func (r CartRepository) touch(ctx context.Context, cartID uint) error {
	return r.DB.WithContext(ctx).Model(&models.Cart{}).Where("id = ?", cartID).Update("updated_at", time.Now()).Error
}
