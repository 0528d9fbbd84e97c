package routes

import (
	"net/http"
	"time"

	"github.com/devmazaharul/fcommerce/controllers"
	"github.com/devmazaharul/fcommerce/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterHealthRoutes sets up the liveness endpoint.
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterStorefrontRoutes sets up catalog, cart and checkout routes.
// Cart and checkout carry the shopper session cookie.
func RegisterStorefrontRoutes(r *gin.Engine, pc *controllers.ProductController, cc *controllers.CartController,
	co *controllers.CheckoutController, cartTTL time.Duration, cookieSecure bool) {
	r.GET("/products", pc.ListProducts)
	r.GET("/products/:slug", pc.GetProductBySlug)

	shopper := r.Group("")
	shopper.Use(middleware.CartSession(cartTTL, cookieSecure))
	shopper.GET("/cart", cc.GetCart)
	shopper.DELETE("/cart", cc.ClearCart)
	shopper.POST("/cart/items", cc.AddItem)
	shopper.PATCH("/cart/items/:product_id", cc.UpdateItem)
	shopper.DELETE("/cart/items/:product_id", cc.RemoveItem)
	shopper.POST("/checkout", co.Checkout)
}

// RegisterAdminRoutes sets up the login page and the back-office. The route
// guard must already be installed on r.
func RegisterAdminRoutes(r *gin.Engine, ac *controllers.AuthController, oc *controllers.OrderController, pc *controllers.ProductController) {
	r.GET("/access", ac.LoginPage)
	r.POST("/access", ac.Login)

	admin := r.Group("/admin")
	admin.GET("", oc.Dashboard)
	admin.POST("/logout", ac.Logout)

	admin.GET("/orders", oc.ListOrders)
	admin.GET("/orders/report", oc.Report)
	admin.GET("/orders/:id", oc.GetOrder)
	admin.POST("/orders/:id/confirm", oc.ConfirmOrder)
	admin.DELETE("/orders/:id", oc.DeleteOrder)

	admin.GET("/products", pc.ListProducts)
	admin.POST("/products", pc.CreateProduct)
	admin.POST("/products/upload-url", pc.UploadURL)
	admin.GET("/products/:id", pc.GetProduct)
	admin.PUT("/products/:id", pc.UpdateProduct)
	admin.DELETE("/products/:id", pc.DeleteProduct)

	admin.GET("/settings", ac.GetSettings)
	admin.PUT("/settings/profile", ac.UpdateProfile)
	admin.PUT("/settings/password", ac.ChangePassword)
}
