package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/devmazaharul/fcommerce/services"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// OrderController handles the admin dashboard and order management.
type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Dashboard handles GET /admin.
func (oc *OrderController) Dashboard(ctx *gin.Context) {
	stats, svcErr := oc.orders.Dashboard(ctx.Request.Context())
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"dashboard": stats})
}

// ListOrders handles GET /admin/orders.
func (oc *OrderController) ListOrders(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)

	orders, total, svcErr := oc.orders.ListOrders(ctx.Request.Context(), page, limit)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"meta":   paginationMeta(page, limit, total),
	})
}

// Report handles GET /admin/orders/report.
func (oc *OrderController) Report(ctx *gin.Context) {
	var buf bytes.Buffer
	if svcErr := oc.orders.WriteOrdersReport(ctx.Request.Context(), &buf); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	filename := fmt.Sprintf("orders_report_%s.xlsx", time.Now().UTC().Format("20060102T150405Z"))
	ctx.Header("Content-Disposition", "attachment; filename="+filename)
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// GetOrder handles GET /admin/orders/:id.
func (oc *OrderController) GetOrder(ctx *gin.Context) {
	order, svcErr := oc.orders.GetOrder(ctx.Request.Context(), ctx.Param("id"))
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// ConfirmOrder handles POST /admin/orders/:id/confirm.
func (oc *OrderController) ConfirmOrder(ctx *gin.Context) {
	order, svcErr := oc.orders.ConfirmOrder(ctx.Request.Context(), ctx.Param("id"))
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Order confirmed", "order": order})
}

// DeleteOrder handles DELETE /admin/orders/:id.
func (oc *OrderController) DeleteOrder(ctx *gin.Context) {
	if svcErr := oc.orders.DeleteOrder(ctx.Request.Context(), ctx.Param("id")); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}
