package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	MinLineQuantity = 1
	MaxLineQuantity = 20
)

// DiscountTier maps an inclusive quantity range to a discount rate.
type DiscountTier struct {
	MinQty int             `json:"minQty"`
	MaxQty int             `json:"maxQty"`
	Rate   decimal.Decimal `json:"rate"`
}

// DiscountTiers are contiguous and cover [MinLineQuantity, MaxLineQuantity].
var DiscountTiers = []DiscountTier{
	{MinQty: 1, MaxQty: 3, Rate: decimal.Zero},
	{MinQty: 4, MaxQty: 9, Rate: decimal.RequireFromString("0.10")},
	{MinQty: 10, MaxQty: 20, Rate: decimal.RequireFromString("0.20")},
}

// CheckQuantity enforces the cart line quantity bounds.
func CheckQuantity(qty int) error {
	if qty < MinLineQuantity || qty > MaxLineQuantity {
		return ValidationError{
			Field: "quantity",
			Msg:   fmt.Sprintf("must be between %d and %d, got %d", MinLineQuantity, MaxLineQuantity, qty),
		}
	}
	return nil
}

// TierFor returns the discount tier that covers qty.
func TierFor(qty int) (DiscountTier, error) {
	if err := CheckQuantity(qty); err != nil {
		return DiscountTier{}, err
	}
	for _, t := range DiscountTiers {
		if qty >= t.MinQty && qty <= t.MaxQty {
			return t, nil
		}
	}
	return DiscountTier{}, InternalError{Msg: fmt.Sprintf("no discount tier for quantity %d", qty)}
}

func roundMoney(x decimal.Decimal) decimal.Decimal {
	return x.Round(2)
}

// Discount is unitPrice × qty × tier rate.
func Discount(unitPrice decimal.Decimal, qty int) (decimal.Decimal, error) {
	if unitPrice.IsNegative() {
		return decimal.Zero, ValidationError{Field: "unitPrice", Msg: "must not be negative"}
	}
	tier, err := TierFor(qty)
	if err != nil {
		return decimal.Zero, err
	}
	return roundMoney(unitPrice.Mul(decimal.NewFromInt(int64(qty))).Mul(tier.Rate)), nil
}

// LineTotal is unitPrice × qty − Discount(unitPrice, qty).
func LineTotal(unitPrice decimal.Decimal, qty int) (decimal.Decimal, error) {
	d, err := Discount(unitPrice, qty)
	if err != nil {
		return decimal.Zero, err
	}
	return roundMoney(unitPrice.Mul(decimal.NewFromInt(int64(qty)))).Sub(d), nil
}

// CartLine is a priced cart line whose quantity always stays within bounds.
type CartLine struct {
	ProductID uint
	UnitPrice decimal.Decimal
	quantity  int
}

func NewCartLine(productID uint, unitPrice decimal.Decimal, qty int) (CartLine, error) {
	if unitPrice.IsNegative() {
		return CartLine{}, ValidationError{Field: "unitPrice", Msg: "must not be negative"}
	}
	l := CartLine{ProductID: productID, UnitPrice: unitPrice}
	if err := l.SetQuantity(qty); err != nil {
		return CartLine{}, err
	}
	return l, nil
}

func (l CartLine) Quantity() int { return l.quantity }

// SetQuantity fails without modifying the line when qty is out of bounds.
func (l *CartLine) SetQuantity(qty int) error {
	if err := CheckQuantity(qty); err != nil {
		return err
	}
	l.quantity = qty
	return nil
}

type LineSummary struct {
	ProductID uint            `json:"productId"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Rate      decimal.Decimal `json:"discountRate"`
	Gross     decimal.Decimal `json:"gross"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
}

type CartSummary struct {
	Lines    []LineSummary   `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// PriceLines sums line totals; lines never interact with each other.
func PriceLines(lines []CartLine) (CartSummary, error) {
	out := CartSummary{
		Lines:    make([]LineSummary, 0, len(lines)),
		Subtotal: decimal.Zero,
		Discount: decimal.Zero,
		Total:    decimal.Zero,
	}
	for _, l := range lines {
		tier, err := TierFor(l.quantity)
		if err != nil {
			return CartSummary{}, err
		}
		gross := roundMoney(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.quantity))))
		disc, err := Discount(l.UnitPrice, l.quantity)
		if err != nil {
			return CartSummary{}, err
		}
		total := gross.Sub(disc)
		out.Lines = append(out.Lines, LineSummary{
			ProductID: l.ProductID,
			UnitPrice: l.UnitPrice,
			Quantity:  l.quantity,
			Rate:      tier.Rate,
			Gross:     gross,
			Discount:  disc,
			Total:     total,
		})
		out.Subtotal = out.Subtotal.Add(gross)
		out.Discount = out.Discount.Add(disc)
		out.Total = out.Total.Add(total)
	}
	return out, nil
}
