package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/startstack/startstack/app/models"
)

// customerRepository implements the CustomerRepository interface
type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository instance
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

// ListInRange returns one page of customers created within the date range,
// newest first, with their users
func (r *customerRepository) ListInRange(from, to time.Time, offset, limit int) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.Where("created BETWEEN ? AND ?", from, to).
		Preload("User").
		Order("created DESC").
		Offset(offset).
		Limit(limit).
		Find(&customers).Error
	return customers, err
}

// CountInRange counts customers created within the date range
func (r *customerRepository) CountInRange(from, to time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Customer{}).
		Where("created BETWEEN ? AND ?", from, to).
		Count(&count).Error
	return count, err
}
