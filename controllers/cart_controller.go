package controllers

import (
	"net/http"

	"github.com/devmazaharul/fcommerce/cart"
	"github.com/devmazaharul/fcommerce/middleware"
	"github.com/devmazaharul/fcommerce/models"
	"github.com/devmazaharul/fcommerce/services"
	"github.com/gin-gonic/gin"
)

// CartController exposes the shopper's cart. The session id comes from
// middleware.CartSession.
type CartController struct {
	carts    *cart.Registry
	products *services.ProductService
}

func NewCartController(carts *cart.Registry, products *services.ProductService) *CartController {
	return &CartController{carts: carts, products: products}
}

// store resolves the session's cart, writing a 503 and returning nil when it
// cannot be read.
func (cc *CartController) store(ctx *gin.Context) *cart.Store {
	store, err := cc.carts.Get(ctx.Request.Context(), ctx.GetString(middleware.CartSessionKey))
	if err != nil {
		respondError(ctx, services.CartError(err))
		return nil
	}
	return store
}

func (cc *CartController) respondCart(ctx *gin.Context, status int, store *cart.Store) {
	view := store.View()
	ctx.JSON(status, gin.H{"cart": view, "max_quantity": store.MaxQuantity()})
}

// GetCart handles GET /cart.
func (cc *CartController) GetCart(ctx *gin.Context) {
	store := cc.store(ctx)
	if store == nil {
		return
	}
	cc.respondCart(ctx, http.StatusOK, store)
}

// AddItem handles POST /cart/items. Quantity defaults to 1.
func (cc *CartController) AddItem(ctx *gin.Context) {
	var req models.AddCartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		invalidRequest(ctx, err)
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	product, svcErr := cc.products.GetProduct(ctx.Request.Context(), req.ProductID)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	store := cc.store(ctx)
	if store == nil {
		return
	}
	if err := store.AddToCart(ctx.Request.Context(), product.CatalogItem(), qty); err != nil {
		respondError(ctx, services.CartError(err))
		return
	}
	cc.respondCart(ctx, http.StatusOK, store)
}

// UpdateItem handles PATCH /cart/items/:product_id.
func (cc *CartController) UpdateItem(ctx *gin.Context) {
	var req models.UpdateCartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		invalidRequest(ctx, err)
		return
	}

	store := cc.store(ctx)
	if store == nil {
		return
	}
	if err := store.UpdateQuantity(ctx.Request.Context(), ctx.Param("product_id"), *req.Quantity); err != nil {
		respondError(ctx, services.CartError(err))
		return
	}
	cc.respondCart(ctx, http.StatusOK, store)
}

// RemoveItem handles DELETE /cart/items/:product_id. Removing an absent item succeeds.
func (cc *CartController) RemoveItem(ctx *gin.Context) {
	store := cc.store(ctx)
	if store == nil {
		return
	}
	if err := store.RemoveFromCart(ctx.Request.Context(), ctx.Param("product_id")); err != nil {
		respondError(ctx, services.CartError(err))
		return
	}
	cc.respondCart(ctx, http.StatusOK, store)
}

// ClearCart handles DELETE /cart.
func (cc *CartController) ClearCart(ctx *gin.Context) {
	store := cc.store(ctx)
	if store == nil {
		return
	}
	if err := store.ClearCart(ctx.Request.Context()); err != nil {
		respondError(ctx, services.CartError(err))
		return
	}
	cc.respondCart(ctx, http.StatusOK, store)
}
