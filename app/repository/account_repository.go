package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/startstack/startstack/app/models"
)

// accountRepository implements the AccountRepository interface
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository instance
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// CustomerID returns the user's Stripe customer id, or empty when none exists
func (r *accountRepository) CustomerID(userID uint) (string, error) {
	var customer models.Customer
	err := r.db.Where("user_id = ?", userID).Order("created DESC").First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return customer.StripeCustomerID, nil
}

// SubscriptionID returns the user's most recent subscription id, or empty
func (r *accountRepository) SubscriptionID(userID uint) (string, error) {
	var sub models.Subscription
	err := r.db.Where("user_id = ?", userID).Order("created DESC").First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return sub.ID, nil
}

// Subscriptions lists the user's subscriptions with their price rows, newest first
func (r *accountRepository) Subscriptions(userID uint, offset, limit int) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.Where("user_id = ?", userID).
		Preload("Price").
		Order("created DESC").
		Offset(offset).Limit(limit).
		Find(&subs).Error
	return subs, err
}

// Invoices lists the user's invoices, newest first
func (r *accountRepository) Invoices(userID uint, offset, limit int) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.Where("user_id = ?", userID).
		Order("created DESC").
		Offset(offset).Limit(limit).
		Find(&invoices).Error
	return invoices, err
}

// InvoicesTotal counts the user's invoices for pagination
func (r *accountRepository) InvoicesTotal(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Invoice{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// PaymentMethods lists the user's stored payment methods, newest first
func (r *accountRepository) PaymentMethods(userID uint, offset, limit int) ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	err := r.db.Where("user_id = ?", userID).
		Order("created DESC").
		Offset(offset).Limit(limit).
		Find(&methods).Error
	return methods, err
}

// HasPurchasedProduct reports whether the user has a paid, completed checkout
// session whose price belongs to one of the given products.
func (r *accountRepository) HasPurchasedProduct(userID uint, productIDs []string) (bool, error) {
	if len(productIDs) == 0 {
		return false, nil
	}
	var count int64
	err := r.db.Model(&models.CheckoutSession{}).
		Joins("JOIN prices ON prices.id = checkout_sessions.price_id").
		Joins("JOIN products ON products.id = prices.product_id").
		Where("checkout_sessions.user_id = ?", userID).
		Where("checkout_sessions.payment_status = ?", models.CheckoutSessionPaymentStatusPaid).
		Where("checkout_sessions.status = ?", models.CheckoutSessionStatusComplete).
		Where("products.id IN ?", productIDs).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
