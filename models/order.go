package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCOD   PaymentMethod = "cod"
	PaymentBkash PaymentMethod = "bkash"
)

// Order is a placed checkout. Total is frozen at submission time.
type Order struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string          `gorm:"type:varchar(100);not null" json:"name"`
	Phone         string          `gorm:"type:varchar(20);not null" json:"phone"`
	Address       string          `gorm:"type:varchar(255);not null" json:"address"`
	Note          string          `gorm:"type:text" json:"note,omitempty"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(10);not null" json:"payment_method"`
	TrxID         string          `gorm:"type:varchar(32);not null" json:"trx_id"`
	ProductIDs    []string        `gorm:"serializer:json;type:jsonb;not null" json:"product_ids"`
	Total         decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total"`
	Status        bool            `gorm:"not null;default:false" json:"status"`
	CreatedAt     time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
}

// CheckoutRequest is the checkout form submitted by a shopper.
type CheckoutRequest struct {
	Name          string        `json:"name" binding:"required,min=3"`
	Phone         string        `json:"phone" binding:"required,bdphone"`
	Address       string        `json:"address" binding:"required,min=10"`
	Note          string        `json:"note"`
	PaymentMethod PaymentMethod `json:"payment_method" binding:"required,oneof=cod bkash"`
	BkashNumber   string        `json:"bkash_number" binding:"omitempty,bdphone"`
	TrxID         string        `json:"trx_id" binding:"omitempty,bkashtrx"`
}

// OrderPlacedEvent is published after an order is stored.
type OrderPlacedEvent struct {
	EventType     string          `json:"event_type"`
	OrderID       string          `json:"order_id"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	ProductIDs    []string        `json:"product_ids"`
	Total         decimal.Decimal `json:"total"`
	Timestamp     time.Time       `json:"timestamp"`
}

// DashboardStats summarises orders for the admin landing page.
type DashboardStats struct {
	TotalOrders     int64           `json:"total_orders"`
	PendingOrders   int64           `json:"pending_orders"`
	ConfirmedOrders int64           `json:"confirmed_orders"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	TotalProducts   int64           `json:"total_products"`
	RecentOrders    []Order         `json:"recent_orders"`
}
