package service

import (
	"errors"

	"github.com/lib/pq"
	"github.com/nkuzn/shoply-backend/internal/app/model"
	"github.com/nkuzn/shoply-backend/internal/app/repository"
	"github.com/nkuzn/shoply-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

// ProductPatch holds the optional fields of a partial update; nil means
// "leave unchanged".
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	ImageURL    *string
	GalleryURLs []string
}

type ProductService interface {
	GetAllProducts() ([]model.Product, error)
	GetProductByID(id uint) (*model.Product, error)
	CreateProduct(product *model.Product) error
	UpdateProduct(product *model.Product) error
	PatchProduct(id uint, patch ProductPatch) (*model.Product, error)
	DeleteProduct(id uint) error
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

// averageRating is the arithmetic mean of the ratings, 0 when there are none.
// Recomputed on every read; nothing is cached.
func averageRating(comments []model.Comment) float64 {
	if len(comments) == 0 {
		return 0
	}
	sum := 0
	for _, comment := range comments {
		sum += comment.Rating
	}
	return float64(sum) / float64(len(comments))
}

func (s *productService) GetAllProducts() ([]model.Product, error) {
	logger.Debug("Fetching all products")

	products, err := s.productRepo.FindAll()
	if err != nil {
		logger.Error("Failed to fetch products", err)
		return nil, err
	}

	for i := range products {
		products[i].AverageRating = averageRating(products[i].Comments)
	}

	logger.Info("Products fetched successfully", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	logger.Debug("Fetching product by ID", map[string]interface{}{
		"product_id": id,
	})

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	product.AverageRating = averageRating(product.Comments)
	return product, nil
}

func (s *productService) CreateProduct(product *model.Product) error {
	logger.Info("Creating product", map[string]interface{}{
		"name":  product.Name,
		"price": product.Price,
	})

	if err := s.productRepo.Create(product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"name": product.Name,
		})
		return err
	}

	logger.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
	})
	return nil
}

func (s *productService) UpdateProduct(product *model.Product) error {
	logger.Info("Updating product", map[string]interface{}{
		"product_id": product.ID,
	})

	existing, err := s.productRepo.FindByID(product.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	product.CreatedAt = existing.CreatedAt
	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}

	logger.Info("Product updated successfully", map[string]interface{}{
		"product_id": product.ID,
	})
	return nil
}

func (s *productService) PatchProduct(id uint, patch ProductPatch) (*model.Product, error) {
	logger.Info("Partially updating product", map[string]interface{}{
		"product_id": id,
	})

	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	fields := map[string]interface{}{}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.Price != nil {
		fields["price"] = *patch.Price
	}
	if patch.ImageURL != nil {
		fields["image_url"] = *patch.ImageURL
	}
	if patch.GalleryURLs != nil {
		fields["gallery_urls"] = pq.StringArray(patch.GalleryURLs)
	}

	if len(fields) > 0 {
		if err := s.productRepo.UpdateFields(id, fields); err != nil {
			logger.Error("Failed to partially update product", err, map[string]interface{}{
				"product_id": id,
			})
			return nil, err
		}
	}

	return s.GetProductByID(id)
}

func (s *productService) DeleteProduct(id uint) error {
	logger.Info("Deleting product", map[string]interface{}{
		"product_id": id,
	})

	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	if err := s.productRepo.Delete(id); err != nil {
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	logger.Info("Product deleted successfully", map[string]interface{}{
		"product_id": id,
	})
	return nil
}
