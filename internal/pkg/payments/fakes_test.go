package payments

import (
	"context"
	"sync"
	"time"

	"github.com/stripe/stripe-go/v81"
	"gorm.io/gorm"

	"github.com/startstack/startstack/app/models"
)

// fakeRepository is an in-memory Repository for service tests.
type fakeRepository struct {
	mu sync.Mutex

	users          map[string]*models.User
	customers      map[string]*models.Customer
	products       map[string]*models.Product
	prices         map[string]*models.Price
	subscriptions  map[string]*models.Subscription
	paymentIntents map[string]*models.PaymentIntent
	paymentMethods []*models.PaymentMethod
	invoices       map[string]*models.Invoice
	completions    []*CompletionRecord

	productUpserts int
	priceUpserts   int
	subSaves       int
	invoiceUpserts int

	completeErr error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:          map[string]*models.User{},
		customers:      map[string]*models.Customer{},
		products:       map[string]*models.Product{},
		prices:         map[string]*models.Price{},
		subscriptions:  map[string]*models.Subscription{},
		paymentIntents: map[string]*models.PaymentIntent{},
		invoices:       map[string]*models.Invoice{},
	}
}

func (f *fakeRepository) UserByEmail(email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[models.NormalizeEmail(email)]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) UserByID(id uint) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) CustomerByStripeID(stripeCustomerID string) (*models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.customers[stripeCustomerID]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) CustomerByUserID(userID uint) (*models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.customers {
		if c.UserID == userID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) ProductByID(id string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) UpsertProduct(p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[p.ID] = p
	f.productUpserts++
	return nil
}

func (f *fakeRepository) DeleteProduct(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, id)
	return nil
}

func (f *fakeRepository) ActivePriceByID(id string) (*models.Price, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.prices[id]; ok && p.Active {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) UpsertPrice(p *models.Price) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prices[p.ID] = p
	f.priceUpserts++
	return nil
}

func (f *fakeRepository) DeletePrice(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.prices, id)
	return nil
}

func (f *fakeRepository) SubscriptionByID(id string) (*models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.subscriptions[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) SaveSubscription(sub *models.Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscriptions[sub.ID] = sub
	f.subSaves++
	return nil
}

func (f *fakeRepository) PaymentIntentByID(id string) (*models.PaymentIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if pi, ok := f.paymentIntents[id]; ok {
		return pi, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) CreatePaymentMethod(pm *models.PaymentMethod) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paymentMethods = append(f.paymentMethods, pm)
	return nil
}

func (f *fakeRepository) UpsertInvoice(inv *models.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invoices[inv.ID] = inv
	f.invoiceUpserts++
	return nil
}

func (f *fakeRepository) CompleteCheckout(rec *CompletionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.completeErr != nil {
		return f.completeErr
	}
	f.completions = append(f.completions, rec)
	return nil
}

// fakeGateway returns canned resources and counts retrievals.
type fakeGateway struct {
	mu sync.Mutex

	price           *stripe.Price
	product         *stripe.Product
	subscription    *stripe.Subscription
	paymentMethod   *stripe.PaymentMethod
	paymentIntent   *stripe.PaymentIntent
	invoice         *stripe.Invoice
	checkoutSession *stripe.CheckoutSession
	customer        *stripe.Customer
	activeSubs      []*stripe.Subscription

	priceErr   error
	sessionErr error

	priceFetches     int
	pmFetches        int
	invoiceFetches   int
	createdSessions  []*stripe.CheckoutSessionParams
	createdCustomers []string
	portalCustomers  []string
}

func (f *fakeGateway) Price(ctx context.Context, id string) (*stripe.Price, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.priceFetches++
	if f.priceErr != nil {
		return nil, f.priceErr
	}
	return f.price, nil
}

func (f *fakeGateway) Product(ctx context.Context, id string) (*stripe.Product, error) {
	return f.product, nil
}

func (f *fakeGateway) Subscription(ctx context.Context, id string) (*stripe.Subscription, error) {
	return f.subscription, nil
}

func (f *fakeGateway) PaymentMethod(ctx context.Context, id string) (*stripe.PaymentMethod, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pmFetches++
	return f.paymentMethod, nil
}

func (f *fakeGateway) PaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error) {
	return f.paymentIntent, nil
}

func (f *fakeGateway) Invoice(ctx context.Context, id string) (*stripe.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invoiceFetches++
	return f.invoice, nil
}

func (f *fakeGateway) CheckoutSession(ctx context.Context, id string) (*stripe.CheckoutSession, error) {
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	return f.checkoutSession, nil
}

func (f *fakeGateway) CreateCustomer(ctx context.Context, email string) (*stripe.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdCustomers = append(f.createdCustomers, email)
	if f.customer != nil {
		return f.customer, nil
	}
	return &stripe.Customer{ID: "cus_new"}, nil
}

func (f *fakeGateway) CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdSessions = append(f.createdSessions, params)
	return &stripe.CheckoutSession{ID: "cs_test", ClientSecret: "secret_123"}, nil
}

func (f *fakeGateway) CreateBillingPortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.portalCustomers = append(f.portalCustomers, customerID)
	return "https://billing.example.com/session", nil
}

func (f *fakeGateway) ActiveSubscriptions(ctx context.Context, createdBefore int64) ([]*stripe.Subscription, error) {
	return f.activeSubs, nil
}

// newTestService wires a service with fakes and no real sleeping.
func newTestService(repo *fakeRepository, gw *fakeGateway) *Service {
	s := NewService(repo, gw, Config{BaseURL: "https://app.example.com"})
	s.sleep = func(time.Duration) {}
	return s
}
