package repository

import (
	"context"

	"github.com/devmazaharul/fcommerce/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindAll(ctx context.Context, page, limit int) ([]models.Order, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Confirm(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// FindAll retrieves orders newest first with pagination. limit <= 0 returns everything.
func (r *GormOrderRepository) FindAll(ctx context.Context, page, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Order{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := query.Order("created_at DESC")
	if limit > 0 {
		q = q.Offset((page - 1) * limit).Limit(limit)
	}
	if err := q.Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// Confirm marks the order as confirmed and returns the updated row.
func (r *GormOrderRepository) Confirm(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	result := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", true)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Order{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Stats aggregates order counts and revenue in a single query.
func (r *GormOrderRepository) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var row struct {
		Total     int64
		Pending   int64
		Confirmed int64
		Revenue   decimal.NullDecimal
	}
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("COUNT(*) AS total, " +
			"COUNT(*) FILTER (WHERE status = false) AS pending, " +
			"COUNT(*) FILTER (WHERE status = true) AS confirmed, " +
			"SUM(total) AS revenue").
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	stats := &models.DashboardStats{
		TotalOrders:     row.Total,
		PendingOrders:   row.Pending,
		ConfirmedOrders: row.Confirmed,
		TotalRevenue:    decimal.Zero,
	}
	if row.Revenue.Valid {
		stats.TotalRevenue = row.Revenue.Decimal
	}
	return stats, nil
}
