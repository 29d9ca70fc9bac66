package repository

import (
	"gorm.io/gorm"

	"github.com/startstack/startstack/app/models"
)

// catalogRepository implements the CatalogRepository interface
type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository instance
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

// GetAllActive returns active products with their active prices, prices
// ordered high to low within each product
func (r *catalogRepository) GetAllActive() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("active = ?", true).
		Preload("Prices", func(db *gorm.DB) *gorm.DB {
			return db.Where("active = ?", true).Order("unit_amount DESC")
		}).
		Find(&products).Error
	return products, err
}

// GetByID returns one product with its active prices
func (r *catalogRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	err := r.db.Where("id = ?", id).
		Preload("Prices", func(db *gorm.DB) *gorm.DB {
			return db.Where("active = ?", true)
		}).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}
