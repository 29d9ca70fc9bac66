package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/startstack/startstack/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByMagicLinkToken(token string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
}

// AccountRepository defines the billing data queries scoped to one user
type AccountRepository interface {
	CustomerID(userID uint) (string, error)
	SubscriptionID(userID uint) (string, error)
	Subscriptions(userID uint, offset, limit int) ([]models.Subscription, error)
	Invoices(userID uint, offset, limit int) ([]models.Invoice, error)
	InvoicesTotal(userID uint) (int64, error)
	PaymentMethods(userID uint, offset, limit int) ([]models.PaymentMethod, error)
	HasPurchasedProduct(userID uint, productIDs []string) (bool, error)
}

// CatalogRepository defines queries over the mirrored product catalog
type CatalogRepository interface {
	GetAllActive() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
}

// CustomerRepository defines customer queries for the admin dashboard
type CustomerRepository interface {
	ListInRange(from, to time.Time, offset, limit int) ([]models.Customer, error)
	CountInRange(from, to time.Time) (int64, error)
}

// Repositories bundles all repository instances
type Repositories struct {
	User     UserRepository
	Account  AccountRepository
	Catalog  CatalogRepository
	Customer CustomerRepository
}

// NewRepositories creates all repository instances with the given database connection
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:     NewUserRepository(db),
		Account:  NewAccountRepository(db),
		Catalog:  NewCatalogRepository(db),
		Customer: NewCustomerRepository(db),
	}
}
