package repository

import (
	"time"

	"github.com/nkuzn/shoply-backend/internal/app/model"
	"github.com/nkuzn/shoply-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id uint) (*model.Product, error)
	Update(product *model.Product) error
	UpdateFields(id uint, fields map[string]interface{}) error
	Delete(id uint) error
	PurgeDeletedBefore(cutoff time.Time) (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// baseQuery preloads the comment tree the serializer embeds in responses
func (r *productRepository) baseQuery() *gorm.DB {
	return r.db.Model(&model.Product{}).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at DESC")
		}).
		Preload("Comments.User")
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":  product.Name,
		"price": product.Price,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

func (r *productRepository) FindAll() ([]model.Product, error) {
	logger.Debug("Finding all products in database")

	var products []model.Product
	if err := r.baseQuery().Order("products.created_at DESC").Find(&products).Error; err != nil {
		logger.Error("Failed to find products in database", err)
		return nil, err
	}

	logger.Debug("Products found in database", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	logger.Debug("Finding product by ID in database", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	if err := r.baseQuery().First(&product, id).Error; err != nil {
		logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	return &product, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}

	return nil
}

// UpdateFields applies a partial update, touching only the supplied columns
func (r *productRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	logger.Debug("Partially updating product in database", map[string]interface{}{
		"product_id": id,
		"fields":     len(fields),
	})

	if err := r.db.Model(&model.Product{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		logger.Error("Failed to partially update product in database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	return nil
}

func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	return nil
}

// PurgeDeletedBefore hard-deletes products that were soft-deleted before the
// cutoff. Used by the scheduled purge job.
func (r *productRepository) PurgeDeletedBefore(cutoff time.Time) (int64, error) {
	res := r.db.Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Delete(&model.Product{})
	if res.Error != nil {
		logger.Error("Failed to purge soft-deleted products", res.Error)
		return 0, res.Error
	}

	logger.Debug("Purged soft-deleted products", map[string]interface{}{
		"count": res.RowsAffected,
	})
	return res.RowsAffected, nil
}
