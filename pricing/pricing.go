// Package pricing computes effective unit prices for catalog items.
package pricing

import (
	"github.com/devmazaharul/fcommerce/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// EffectivePrice returns the unit price after an active discount.
func EffectivePrice(item models.CatalogItem) decimal.Decimal {
	if !item.DiscountStatus || item.Discount <= 0 {
		return item.Price
	}
	factor := decimal.NewFromInt(1).Sub(decimal.NewFromInt(int64(item.Discount)).Div(hundred))
	return item.Price.Mul(factor)
}

// LineTotal returns EffectivePrice(item) * qty.
func LineTotal(item models.CatalogItem, qty int) decimal.Decimal {
	return EffectivePrice(item).Mul(decimal.NewFromInt(int64(qty)))
}
