package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"

	"github.com/devmazaharul/fcommerce/models"
	"github.com/devmazaharul/fcommerce/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	minProductPrice = decimal.NewFromInt(1)
	maxProductPrice = decimal.NewFromInt(1000000)
)

// ProductService handles catalog reads for the storefront and CRUD for admins.
type ProductService struct {
	repo   repository.ProductRepository
	logger *zap.Logger
}

func NewProductService(repo repository.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger}
}

// Slugify lowercases the trimmed name and joins words with "-".
func Slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

func newSKU() string {
	return fmt.Sprintf("SKU-%d", rand.IntN(1000000))
}

func validateProductInput(in *models.ProductInput) *ServiceError {
	if in.Price.LessThan(minProductPrice) || in.Price.GreaterThan(maxProductPrice) {
		return validationError("Price must be between 1 and 1000000")
	}
	if in.Discount < 0 || in.Discount > 100 {
		return validationError("Discount must be between 0 and 100")
	}
	if in.DiscountStatus && in.Discount < 1 {
		return validationError("Discount must be at least 1 when discount is active")
	}
	return nil
}

func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, *ServiceError) {
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return nil, unavailableError("Failed to load products")
	}
	return products, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, *ServiceError) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, validationError("Invalid product ID")
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, s.lookupError(err)
	}
	return product, nil
}

func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*models.Product, *ServiceError) {
	product, err := s.repo.FindBySlug(ctx, strings.ToLower(slug))
	if err != nil {
		return nil, s.lookupError(err)
	}
	return product, nil
}

// CreateProduct stores a new product with derived slug and SKU.
func (s *ProductService) CreateProduct(ctx context.Context, in *models.ProductInput) (*models.Product, *ServiceError) {
	if svcErr := validateProductInput(in); svcErr != nil {
		return nil, svcErr
	}

	product := &models.Product{SKU: newSKU()}
	applyProductInput(product, in)

	if err := s.repo.Create(ctx, product); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, &ServiceError{StatusCode: http.StatusConflict, Message: "Product already exists"}
		}
		s.logger.Error("Failed to create product", zap.Error(err))
		return nil, unavailableError("Failed to create product")
	}

	s.logger.Info("Product created", zap.String("id", product.ID.String()), zap.String("slug", product.Slug))
	return product, nil
}

// UpdateProduct replaces the editable fields. The slug follows the name; the SKU is kept.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, in *models.ProductInput) (*models.Product, *ServiceError) {
	if svcErr := validateProductInput(in); svcErr != nil {
		return nil, svcErr
	}
	product, svcErr := s.GetProduct(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}

	applyProductInput(product, in)
	if err := s.repo.Update(ctx, product); err != nil {
		s.logger.Error("Failed to update product", zap.Error(err))
		return nil, unavailableError("Failed to update product")
	}

	s.logger.Info("Product updated", zap.String("id", product.ID.String()))
	return product, nil
}

// DeleteProduct removes a product. Deleting an absent product succeeds.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) *ServiceError {
	productID, err := uuid.Parse(id)
	if err != nil {
		return validationError("Invalid product ID")
	}
	deleted, err := s.repo.Delete(ctx, productID)
	if err != nil {
		s.logger.Error("Failed to delete product", zap.Error(err))
		return unavailableError("Failed to delete product")
	}
	if deleted {
		s.logger.Info("Product deleted", zap.String("id", id))
	}
	return nil
}

func (s *ProductService) CountProducts(ctx context.Context) (int64, *ServiceError) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count products", zap.Error(err))
		return 0, unavailableError("Failed to count products")
	}
	return n, nil
}

func (s *ProductService) lookupError(err error) *ServiceError {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundError("Product not found")
	}
	s.logger.Error("Failed to load product", zap.Error(err))
	return unavailableError("Failed to load product")
}

func applyProductInput(p *models.Product, in *models.ProductInput) {
	p.Name = strings.TrimSpace(in.Name)
	p.ShortDesc = strings.TrimSpace(in.ShortDesc)
	p.LongDesc = strings.TrimSpace(in.LongDesc)
	p.Price = in.Price
	p.Discount = in.Discount
	p.DiscountStatus = in.DiscountStatus
	p.Category = strings.TrimSpace(in.Category)
	p.Image = strings.TrimSpace(in.Image)
	p.Slug = Slugify(in.Name)
}
