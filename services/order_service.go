package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/devmazaharul/fcommerce/cart"
	"github.com/devmazaharul/fcommerce/events"
	"github.com/devmazaharul/fcommerce/models"
	aws_pkg "github.com/devmazaharul/fcommerce/pkg/aws"
	"github.com/devmazaharul/fcommerce/repository"
	"github.com/google/uuid"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	recentOrdersLimit = 5
	publishTimeout    = 3 * time.Second
)

// OrderService handles checkout and the admin order workflow.
type OrderService struct {
	orders    repository.OrderRepository
	products  repository.ProductRepository
	publisher events.Publisher
	metrics   aws_pkg.MetricsRecorder
	logger    *zap.Logger
}

func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	publisher events.Publisher,
	metrics aws_pkg.MetricsRecorder,
	logger *zap.Logger,
) *OrderService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if metrics == nil {
		metrics = aws_pkg.NoopMetrics{}
	}
	return &OrderService{
		orders:    orders,
		products:  products,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

func codTrxID() string {
	return fmt.Sprintf("cod-%08d", rand.IntN(100000000))
}

func validateCheckout(req *models.CheckoutRequest) *ServiceError {
	if !models.PhonePattern.MatchString(req.Phone) {
		return validationError("Invalid phone number")
	}
	switch req.PaymentMethod {
	case models.PaymentCOD:
	case models.PaymentBkash:
		if req.BkashNumber == "" || req.TrxID == "" {
			return validationError("bKash number and transaction id are required")
		}
		if !models.PhonePattern.MatchString(req.BkashNumber) {
			return validationError("Invalid bKash number")
		}
		if !models.TrxIDPattern.MatchString(req.TrxID) {
			return validationError("Invalid transaction id")
		}
	default:
		return validationError("Unsupported payment method")
	}
	return nil
}

// Checkout turns the shopper's cart into an order. The cart is cleared only
// after the order is stored; on any failure it is left untouched.
func (s *OrderService) Checkout(ctx context.Context, store *cart.Store, req *models.CheckoutRequest) (*models.Order, *ServiceError) {
	if svcErr := validateCheckout(req); svcErr != nil {
		return nil, svcErr
	}

	view := store.View()
	if len(view.Items) == 0 {
		return nil, validationError("Cart is empty")
	}

	productIDs := make([]string, 0, len(view.Items))
	for _, line := range view.Items {
		productIDs = append(productIDs, line.ID)
	}

	trxID := req.TrxID
	if req.PaymentMethod == models.PaymentCOD {
		trxID = codTrxID()
	}

	order := &models.Order{
		Name:          strings.TrimSpace(req.Name),
		Phone:         req.Phone,
		Address:       strings.TrimSpace(req.Address),
		Note:          strings.TrimSpace(req.Note),
		PaymentMethod: req.PaymentMethod,
		TrxID:         trxID,
		ProductIDs:    productIDs,
		Total:         view.TotalPrice,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.Error("Failed to create order", zap.Error(err))
		_ = s.metrics.RecordCount(ctx, aws_pkg.MetricOrdersFailed, nil)
		return nil, unavailableError("Order could not be placed, please try again")
	}

	if err := store.ClearCart(context.WithoutCancel(ctx)); err != nil {
		s.logger.Error("Order placed but cart could not be cleared",
			zap.String("order_id", order.ID.String()), zap.Error(err))
	}

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_method", string(order.PaymentMethod)),
		zap.String("total", order.Total.String()),
	)
	_ = s.metrics.RecordCount(ctx, aws_pkg.MetricOrdersCreated, map[string]string{"PaymentMethod": string(order.PaymentMethod)})
	s.publishPlaced(ctx, order)
	return order, nil
}

// publishPlaced is best-effort: a broker failure never fails the checkout.
func (s *OrderService) publishPlaced(ctx context.Context, order *models.Order) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := models.OrderPlacedEvent{
		EventType:     events.EventOrderPlaced,
		OrderID:       order.ID.String(),
		PaymentMethod: order.PaymentMethod,
		ProductIDs:    order.ProductIDs,
		Total:         order.Total,
		Timestamp:     time.Now().UTC(),
	}
	if err := s.publisher.PublishOrderPlaced(pubCtx, event); err != nil {
		s.logger.Warn("Failed to publish order event", zap.String("order_id", event.OrderID), zap.Error(err))
	}
}

// ListOrders returns orders newest first.
func (s *OrderService) ListOrders(ctx context.Context, page, limit int) ([]models.Order, int64, *ServiceError) {
	orders, total, err := s.orders.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return nil, 0, unavailableError("Failed to load orders")
	}
	return orders, total, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, *ServiceError) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, validationError("Invalid order ID")
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, s.lookupError(err)
	}
	return order, nil
}

// ConfirmOrder sets the order status to confirmed.
func (s *OrderService) ConfirmOrder(ctx context.Context, id string) (*models.Order, *ServiceError) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, validationError("Invalid order ID")
	}
	order, err := s.orders.Confirm(ctx, orderID)
	if err != nil {
		return nil, s.lookupError(err)
	}
	s.logger.Info("Order confirmed", zap.String("order_id", id))
	return order, nil
}

// DeleteOrder removes an order. Deleting an absent order succeeds.
func (s *OrderService) DeleteOrder(ctx context.Context, id string) *ServiceError {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return validationError("Invalid order ID")
	}
	deleted, err := s.orders.Delete(ctx, orderID)
	if err != nil {
		s.logger.Error("Failed to delete order", zap.Error(err))
		return unavailableError("Failed to delete order")
	}
	if deleted {
		s.logger.Info("Order deleted", zap.String("order_id", id))
	}
	return nil
}

// Dashboard collects the admin landing page figures.
func (s *OrderService) Dashboard(ctx context.Context) (*models.DashboardStats, *ServiceError) {
	stats, err := s.orders.Stats(ctx)
	if err != nil {
		s.logger.Error("Failed to compute order stats", zap.Error(err))
		return nil, unavailableError("Failed to load dashboard")
	}

	products, err := s.products.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count products", zap.Error(err))
		return nil, unavailableError("Failed to load dashboard")
	}
	stats.TotalProducts = products

	recent, _, err := s.orders.FindAll(ctx, 1, recentOrdersLimit)
	if err != nil {
		s.logger.Error("Failed to load recent orders", zap.Error(err))
		return nil, unavailableError("Failed to load dashboard")
	}
	stats.RecentOrders = recent
	return stats, nil
}

// WriteOrdersReport writes every order, newest first, as an XLSX workbook.
func (s *OrderService) WriteOrdersReport(ctx context.Context, w io.Writer) *ServiceError {
	orders, _, svcErr := s.ListOrders(ctx, 1, 0)
	if svcErr != nil {
		return svcErr
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		s.logger.Error("Failed to create Excel sheet", zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to build report"}
	}

	headers := []string{"ID", "Name", "Phone", "Payment", "TRX ID", "Total", "Status", "Address", "Created At"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().SetValue(h)
	}

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetValue(o.ID.String())
		row.AddCell().SetValue(o.Name)
		row.AddCell().SetValue(o.Phone)
		row.AddCell().SetValue(string(o.PaymentMethod))
		row.AddCell().SetValue(o.TrxID)
		row.AddCell().SetValue(o.Total.StringFixed(2))
		row.AddCell().SetValue(orderStatusLabel(o.Status))
		row.AddCell().SetValue(o.Address)
		row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	if err := file.Write(w); err != nil {
		s.logger.Error("Failed to write Excel file", zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to write report"}
	}
	return nil
}

func orderStatusLabel(confirmed bool) string {
	if confirmed {
		return "Confirmed"
	}
	return "Pending"
}

func (s *OrderService) lookupError(err error) *ServiceError {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundError("Order not found")
	}
	s.logger.Error("Failed to load order", zap.Error(err))
	return unavailableError("Failed to load order")
}
