package services

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/devmazaharul/fcommerce/cart"
	"github.com/devmazaharul/fcommerce/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"
)

func catalogItem(id, price string, discount int, active bool) models.CatalogItem {
	return models.CatalogItem{
		ID:             id,
		Name:           "item " + id,
		Price:          decimal.RequireFromString(price),
		Discount:       discount,
		DiscountStatus: active,
	}
}

func filledStore(t *testing.T, storage cart.Storage) *cart.Store {
	t.Helper()
	ctx := context.Background()
	store, err := cart.Open(ctx, storage, "cart:session:test", 10, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, store.AddToCart(ctx, catalogItem("p1", "100", 20, true), 2))
	require.NoError(t, store.AddToCart(ctx, catalogItem("p2", "50", 0, false), 1))
	return store
}

func codRequest() *models.CheckoutRequest {
	return &models.CheckoutRequest{
		Name:          "Rahim Uddin",
		Phone:         "01712345678",
		Address:       "House 1, Road 2, Dhaka",
		PaymentMethod: models.PaymentCOD,
	}
}

func newTestOrderService(orders *mockOrderRepo, pub *mockPublisher) *OrderService {
	return NewOrderService(orders, newMockProductRepo(), pub, nil, zap.NewNop())
}

func TestCheckout_COD(t *testing.T) {
	orders := &mockOrderRepo{}
	pub := &mockPublisher{}
	svc := newTestOrderService(orders, pub)
	store := filledStore(t, newFlakyCartStorage())

	order, svcErr := svc.Checkout(context.Background(), store, codRequest())
	require.Nil(t, svcErr)

	assert.True(t, order.Total.Equal(decimal.NewFromInt(210)))
	assert.Equal(t, []string{"p1", "p2"}, order.ProductIDs)
	assert.Regexp(t, regexp.MustCompile(`^cod-\d{8}$`), order.TrxID)
	assert.False(t, order.Status)
	assert.Len(t, orders.orders, 1)

	assert.Empty(t, store.Lines(), "cart should be cleared after checkout")

	require.Len(t, pub.events, 1)
	assert.Equal(t, "order.placed", pub.events[0].EventType)
	assert.Equal(t, order.ID.String(), pub.events[0].OrderID)
}

func TestCheckout_ClearsCartAfterClientDisconnect(t *testing.T) {
	orders := &mockOrderRepo{}
	svc := newTestOrderService(orders, &mockPublisher{})
	storage := newFlakyCartStorage()
	store := filledStore(t, storage)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, svcErr := svc.Checkout(ctx, store, codRequest())
	require.Nil(t, svcErr)
	assert.Len(t, orders.orders, 1)
	assert.Empty(t, store.Lines())

	reopened, err := cart.Open(context.Background(), storage, "cart:session:test", 10, nil)
	require.NoError(t, err)
	assert.Empty(t, reopened.Lines())
}

func TestCheckout_Bkash(t *testing.T) {
	svc := newTestOrderService(&mockOrderRepo{}, &mockPublisher{})

	t.Run("Missing trx id", func(t *testing.T) {
		store := filledStore(t, newFlakyCartStorage())
		req := codRequest()
		req.PaymentMethod = models.PaymentBkash
		req.BkashNumber = "01812345678"

		_, svcErr := svc.Checkout(context.Background(), store, req)
		require.NotNil(t, svcErr)
		assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
		assert.ErrorIs(t, svcErr, ErrValidation)
		assert.Len(t, store.Lines(), 2)
	})

	t.Run("Invalid trx id", func(t *testing.T) {
		store := filledStore(t, newFlakyCartStorage())
		req := codRequest()
		req.PaymentMethod = models.PaymentBkash
		req.BkashNumber = "01812345678"
		req.TrxID = "short"

		_, svcErr := svc.Checkout(context.Background(), store, req)
		require.NotNil(t, svcErr)
		assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
	})

	t.Run("Success keeps trx id", func(t *testing.T) {
		store := filledStore(t, newFlakyCartStorage())
		req := codRequest()
		req.PaymentMethod = models.PaymentBkash
		req.BkashNumber = "01812345678"
		req.TrxID = "8N7A6D5C4B"

		order, svcErr := svc.Checkout(context.Background(), store, req)
		require.Nil(t, svcErr)
		assert.Equal(t, "8N7A6D5C4B", order.TrxID)
		assert.Equal(t, models.PaymentBkash, order.PaymentMethod)
	})
}

func TestCheckout_EmptyCart(t *testing.T) {
	orders := &mockOrderRepo{}
	svc := newTestOrderService(orders, &mockPublisher{})
	store, err := cart.Open(context.Background(), newFlakyCartStorage(), "k", 10, nil)
	require.NoError(t, err)

	_, svcErr := svc.Checkout(context.Background(), store, codRequest())
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
	assert.Empty(t, orders.orders)
}

func TestCheckout_BackendFailureLeavesCart(t *testing.T) {
	orders := &mockOrderRepo{err: errDBDown}
	pub := &mockPublisher{}
	svc := newTestOrderService(orders, pub)
	store := filledStore(t, newFlakyCartStorage())

	_, svcErr := svc.Checkout(context.Background(), store, codRequest())
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusServiceUnavailable, svcErr.StatusCode)
	assert.ErrorIs(t, svcErr, ErrBackendUnavailable)
	assert.Len(t, store.Lines(), 2)
	assert.Equal(t, 3, store.TotalItems())
	assert.Empty(t, pub.events)
}

func TestCheckout_PublishFailureDoesNotFail(t *testing.T) {
	pub := &mockPublisher{err: errors.New("broker down")}
	svc := newTestOrderService(&mockOrderRepo{}, pub)
	store := filledStore(t, newFlakyCartStorage())

	order, svcErr := svc.Checkout(context.Background(), store, codRequest())
	require.Nil(t, svcErr)
	assert.NotNil(t, order)
	assert.Empty(t, store.Lines())
}

func TestCheckout_ClearFailureStillReturnsOrder(t *testing.T) {
	storage := newFlakyCartStorage()
	orders := &mockOrderRepo{}
	svc := newTestOrderService(orders, &mockPublisher{})
	store := filledStore(t, storage)
	storage.setFailing(true)

	order, svcErr := svc.Checkout(context.Background(), store, codRequest())
	require.Nil(t, svcErr)
	assert.NotNil(t, order)
	assert.Len(t, orders.orders, 1)
}

func seedOrders(repo *mockOrderRepo) []*models.Order {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var out []*models.Order
	for i, total := range []string{"100", "250.50", "49.50"} {
		o := &models.Order{
			ID:            uuid.New(),
			Name:          "Customer",
			Phone:         "01712345678",
			Address:       "Some address in Dhaka",
			PaymentMethod: models.PaymentCOD,
			TrxID:         "cod-00000001",
			ProductIDs:    []string{"p1"},
			Total:         decimal.RequireFromString(total),
			Status:        i == 0,
			CreatedAt:     base.Add(time.Duration(i) * time.Hour),
		}
		repo.orders = append(repo.orders, o)
		out = append(out, o)
	}
	return out
}

func TestOrderAdminWorkflow(t *testing.T) {
	ctx := context.Background()
	repo := &mockOrderRepo{}
	seeded := seedOrders(repo)
	svc := newTestOrderService(repo, &mockPublisher{})

	t.Run("List newest first", func(t *testing.T) {
		orders, total, svcErr := svc.ListOrders(ctx, 1, 2)
		require.Nil(t, svcErr)
		assert.Equal(t, int64(3), total)
		require.Len(t, orders, 2)
		assert.Equal(t, seeded[2].ID, orders[0].ID)
		assert.Equal(t, seeded[1].ID, orders[1].ID)
	})

	t.Run("Get", func(t *testing.T) {
		order, svcErr := svc.GetOrder(ctx, seeded[1].ID.String())
		require.Nil(t, svcErr)
		assert.Equal(t, seeded[1].ID, order.ID)

		_, svcErr = svc.GetOrder(ctx, uuid.NewString())
		require.NotNil(t, svcErr)
		assert.Equal(t, http.StatusNotFound, svcErr.StatusCode)

		_, svcErr = svc.GetOrder(ctx, "not-a-uuid")
		require.NotNil(t, svcErr)
		assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
	})

	t.Run("Confirm", func(t *testing.T) {
		order, svcErr := svc.ConfirmOrder(ctx, seeded[2].ID.String())
		require.Nil(t, svcErr)
		assert.True(t, order.Status)

		_, svcErr = svc.ConfirmOrder(ctx, uuid.NewString())
		require.NotNil(t, svcErr)
		assert.Equal(t, http.StatusNotFound, svcErr.StatusCode)
	})

	t.Run("Dashboard", func(t *testing.T) {
		stats, svcErr := svc.Dashboard(ctx)
		require.Nil(t, svcErr)
		assert.Equal(t, int64(3), stats.TotalOrders)
		assert.Equal(t, int64(2), stats.ConfirmedOrders)
		assert.Equal(t, int64(1), stats.PendingOrders)
		assert.True(t, stats.TotalRevenue.Equal(decimal.NewFromInt(400)))
		assert.Len(t, stats.RecentOrders, 3)
	})

	t.Run("Report", func(t *testing.T) {
		var buf bytes.Buffer
		require.Nil(t, svc.WriteOrdersReport(ctx, &buf))

		file, err := xlsx.OpenBinary(buf.Bytes())
		require.NoError(t, err)
		require.Len(t, file.Sheets, 1)
		sheet := file.Sheets[0]
		assert.Equal(t, "Orders", sheet.Name)
		assert.Len(t, sheet.Rows, 4)
		assert.Equal(t, "TRX ID", sheet.Rows[0].Cells[4].String())
		assert.Equal(t, "49.50", sheet.Rows[1].Cells[5].String())
	})

	t.Run("Delete is idempotent", func(t *testing.T) {
		id := seeded[0].ID.String()
		assert.Nil(t, svc.DeleteOrder(ctx, id))
		assert.Nil(t, svc.DeleteOrder(ctx, id))
		_, svcErr := svc.GetOrder(ctx, id)
		require.NotNil(t, svcErr)
		assert.Equal(t, http.StatusNotFound, svcErr.StatusCode)
	})
}

func TestOrderService_BackendErrors(t *testing.T) {
	svc := newTestOrderService(&mockOrderRepo{err: errDBDown}, &mockPublisher{})
	ctx := context.Background()

	_, _, svcErr := svc.ListOrders(ctx, 1, 10)
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusServiceUnavailable, svcErr.StatusCode)

	_, svcErr = svc.Dashboard(ctx)
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusServiceUnavailable, svcErr.StatusCode)

	svcErr = svc.DeleteOrder(ctx, uuid.NewString())
	require.NotNil(t, svcErr)
	assert.ErrorIs(t, svcErr, ErrBackendUnavailable)
}
