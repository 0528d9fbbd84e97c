package models

import "github.com/shopspring/decimal"

// CatalogItem is the snapshot of a product carried by a cart line.
type CatalogItem struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Image          string          `json:"image,omitempty"`
	Slug           string          `json:"slug,omitempty"`
	Price          decimal.Decimal `json:"price"`
	Discount       int             `json:"discount"`
	DiscountStatus bool            `json:"discount_status"`
}

// CartLine is one catalog item plus the selected quantity.
type CartLine struct {
	CatalogItem
	Quantity int `json:"quantity"`
}

// CartView is the response shape for a shopper's cart.
type CartView struct {
	Items      []CartLine      `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// AddCartItemRequest is the payload for POST /cart/items.
type AddCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  *int   `json:"quantity" binding:"omitempty,min=1"`
}

// UpdateCartItemRequest is the payload for PATCH /cart/items/:product_id.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=1"`
}
