package controllers

import (
	"net/http"

	"github.com/devmazaharul/fcommerce/models"
	"github.com/devmazaharul/fcommerce/services"
	"github.com/gin-gonic/gin"
)

// ProductController serves the public catalog and admin product management.
type ProductController struct {
	products *services.ProductService
	uploads  *services.UploadService
}

func NewProductController(products *services.ProductService, uploads *services.UploadService) *ProductController {
	return &ProductController{products: products, uploads: uploads}
}

// ListProducts handles GET /products and GET /admin/products.
func (pc *ProductController) ListProducts(ctx *gin.Context) {
	products, svcErr := pc.products.ListProducts(ctx.Request.Context())
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
}

// GetProductBySlug handles GET /products/:slug.
func (pc *ProductController) GetProductBySlug(ctx *gin.Context) {
	product, svcErr := pc.products.GetBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"product": product})
}

// GetProduct handles GET /admin/products/:id.
func (pc *ProductController) GetProduct(ctx *gin.Context) {
	product, svcErr := pc.products.GetProduct(ctx.Request.Context(), ctx.Param("id"))
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"product": product})
}

// CreateProduct handles POST /admin/products.
func (pc *ProductController) CreateProduct(ctx *gin.Context) {
	var req models.ProductInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		invalidRequest(ctx, err)
		return
	}

	product, svcErr := pc.products.CreateProduct(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"product": product})
}

// UpdateProduct handles PUT /admin/products/:id.
func (pc *ProductController) UpdateProduct(ctx *gin.Context) {
	var req models.ProductInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		invalidRequest(ctx, err)
		return
	}

	product, svcErr := pc.products.UpdateProduct(ctx.Request.Context(), ctx.Param("id"), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct handles DELETE /admin/products/:id.
func (pc *ProductController) DeleteProduct(ctx *gin.Context) {
	if svcErr := pc.products.DeleteProduct(ctx.Request.Context(), ctx.Param("id")); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

type uploadURLRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// UploadURL handles POST /admin/products/upload-url.
func (pc *ProductController) UploadURL(ctx *gin.Context) {
	var req uploadURLRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		invalidRequest(ctx, err)
		return
	}

	upload, svcErr := pc.uploads.ProductImageURL(ctx.Request.Context(), req.ContentType)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"upload": upload})
}
