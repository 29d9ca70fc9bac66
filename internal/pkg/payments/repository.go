package payments

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/startstack/startstack/app/models"
)

// Repository provides the DB operations used by the payments service. All
// single-row writes are idempotent upserts keyed by the Stripe id; the only
// multi-statement mutation is CompleteCheckout, which must be atomic.
type Repository interface {
	UserByEmail(email string) (*models.User, error)
	UserByID(id uint) (*models.User, error)

	CustomerByStripeID(stripeCustomerID string) (*models.Customer, error)
	CustomerByUserID(userID uint) (*models.Customer, error)

	ProductByID(id string) (*models.Product, error)
	UpsertProduct(p *models.Product) error
	DeleteProduct(id string) error

	ActivePriceByID(id string) (*models.Price, error)
	UpsertPrice(p *models.Price) error
	DeletePrice(id string) error

	SubscriptionByID(id string) (*models.Subscription, error)
	SaveSubscription(sub *models.Subscription) error

	PaymentIntentByID(id string) (*models.PaymentIntent, error)

	CreatePaymentMethod(pm *models.PaymentMethod) error

	UpsertInvoice(inv *models.Invoice) error

	// CompleteCheckout runs the completion transaction: resolve-or-create the
	// user by email, insert the customer mapping (ignoring conflicts), insert
	// the subscription or payment intent, insert the checkout session row.
	// Either every insert commits or none does.
	CompleteCheckout(rec *CompletionRecord) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a payments repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) UserByEmail(email string) (*models.User, error) {
	var u models.User
	err := r.db.Where("email = ?", models.NormalizeEmail(email)).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *gormRepository) UserByID(id uint) (*models.User, error) {
	var u models.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *gormRepository) CustomerByStripeID(stripeCustomerID string) (*models.Customer, error) {
	var c models.Customer
	err := r.db.Where("stripe_customer_id = ?", stripeCustomerID).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *gormRepository) CustomerByUserID(userID uint) (*models.Customer, error) {
	var c models.Customer
	err := r.db.Where("user_id = ?", userID).Order("created DESC").First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *gormRepository) ProductByID(id string) (*models.Product, error) {
	var p models.Product
	err := r.db.Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) UpsertProduct(p *models.Product) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(p).Error
}

func (r *gormRepository) DeleteProduct(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.Product{}).Error
}

func (r *gormRepository) ActivePriceByID(id string) (*models.Price, error) {
	var p models.Price
	err := r.db.Where("id = ? AND active = ?", id, true).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) UpsertPrice(p *models.Price) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(p).Error
}

func (r *gormRepository) DeletePrice(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.Price{}).Error
}

func (r *gormRepository) SubscriptionByID(id string) (*models.Subscription, error) {
	var s models.Subscription
	err := r.db.Where("id = ?", id).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *gormRepository) SaveSubscription(sub *models.Subscription) error {
	return r.db.Save(sub).Error
}

func (r *gormRepository) PaymentIntentByID(id string) (*models.PaymentIntent, error) {
	var pi models.PaymentIntent
	err := r.db.Where("id = ?", id).First(&pi).Error
	if err != nil {
		return nil, err
	}
	return &pi, nil
}

func (r *gormRepository) CreatePaymentMethod(pm *models.PaymentMethod) error {
	return r.db.Create(pm).Error
}

func (r *gormRepository) UpsertInvoice(inv *models.Invoice) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(inv).Error
}

func (r *gormRepository) CompleteCheckout(rec *CompletionRecord) error {
	if rec == nil {
		return errors.New("completion record is required")
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Where("email = ?", models.NormalizeEmail(rec.Email)).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = *models.NewCheckoutUser(rec.Email)
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		customer := models.Customer{
			UserID:           user.ID,
			StripeCustomerID: rec.StripeCustomerID,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&customer).Error; err != nil {
			return err
		}

		if rec.PaymentIntent != nil {
			rec.PaymentIntent.UserID = user.ID
			if err := tx.Create(rec.PaymentIntent).Error; err != nil {
				return err
			}
		} else if rec.Subscription != nil {
			rec.Subscription.UserID = user.ID
			if err := tx.Create(rec.Subscription).Error; err != nil {
				return err
			}
		}

		rec.Session.UserID = user.ID
		return tx.Create(&rec.Session).Error
	})
}
