package controllers

import (
	"net/http"

	"github.com/devmazaharul/fcommerce/cart"
	"github.com/devmazaharul/fcommerce/middleware"
	"github.com/devmazaharul/fcommerce/models"
	"github.com/devmazaharul/fcommerce/services"
	"github.com/gin-gonic/gin"
)

type CheckoutController struct {
	carts  *cart.Registry
	orders *services.OrderService
}

func NewCheckoutController(carts *cart.Registry, orders *services.OrderService) *CheckoutController {
	return &CheckoutController{carts: carts, orders: orders}
}

// Checkout handles POST /checkout.
func (cc *CheckoutController) Checkout(ctx *gin.Context) {
	var req models.CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		invalidRequest(ctx, err)
		return
	}

	store, err := cc.carts.Get(ctx.Request.Context(), ctx.GetString(middleware.CartSessionKey))
	if err != nil {
		respondError(ctx, services.CartError(err))
		return
	}
	order, svcErr := cc.orders.Checkout(ctx.Request.Context(), store, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"message": "Order placed", "order": order})
}
