package models

import (
	"time"

	"shopadmin/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"userId"`
	Items     []CartItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (Cart) TableName() string { return "carts" }

// Lines converts stored items to priced domain lines.
func (c *Cart) Lines() ([]domain.CartLine, error) {
	out := make([]domain.CartLine, 0, len(c.Items))
	for _, it := range c.Items {
		l, err := it.Line()
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// ItemByProduct returns the line holding productID, if any.
func (c *Cart) ItemByProduct(productID uint) (*CartItem, bool) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i], true
		}
	}
	return nil, false
}

func (c *Cart) Item(itemID uint) (*CartItem, bool) {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i], true
		}
	}
	return nil, false
}

type CartItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	CartID    uint            `gorm:"not null;uniqueIndex:idx_cart_product" json:"cartId"`
	ProductID uint            `gorm:"not null;uniqueIndex:idx_cart_product" json:"productId"`
	Product   *Product        `json:"product,omitempty"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unitPrice"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (CartItem) TableName() string { return "cart_items" }

// SetQuantity leaves the item unchanged when qty is out of bounds.
func (i *CartItem) SetQuantity(qty int) error {
	if err := domain.CheckQuantity(qty); err != nil {
		return err
	}
	i.Quantity = qty
	return nil
}

func (i CartItem) Line() (domain.CartLine, error) {
	return domain.NewCartLine(i.ProductID, i.UnitPrice, i.Quantity)
}

// BeforeSave keeps out-of-range quantities out of storage.
func (i *CartItem) BeforeSave(tx *gorm.DB) error {
	return domain.CheckQuantity(i.Quantity)
}
