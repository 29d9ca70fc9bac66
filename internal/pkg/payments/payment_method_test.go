package payments

import (
	"context"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v81"

	"github.com/startstack/startstack/app/models"
)

func testStripePaymentMethod(email string) *stripe.PaymentMethod {
	return &stripe.PaymentMethod{
		ID: "pm_123",
		BillingDetails: &stripe.PaymentMethodBillingDetails{
			Email: email,
		},
		Card: &stripe.PaymentMethodCard{
			DisplayBrand: "visa",
			Last4:        "4242",
			ExpMonth:     12,
			ExpYear:      2030,
		},
	}
}

func TestAttachPaymentMethodByBillingEmail(t *testing.T) {
	repo := newFakeRepository()
	repo.users["buyer@example.com"] = &models.User{ID: 7, Email: "buyer@example.com"}
	gw := &fakeGateway{paymentMethod: testStripePaymentMethod("Buyer@Example.com")}
	s := newTestService(repo, gw)

	if err := s.AttachPaymentMethod(context.Background(), "pm_123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.paymentMethods) != 1 {
		t.Fatalf("expected one stored payment method, got %d", len(repo.paymentMethods))
	}
	pm := repo.paymentMethods[0]
	if pm.UserID != 7 || pm.Brand != "visa" || pm.Last4 != "4242" {
		t.Fatalf("unexpected stored payment method: %+v", pm)
	}
}

func TestAttachPaymentMethodFallsBackToCustomerMapping(t *testing.T) {
	repo := newFakeRepository()
	repo.users["buyer@example.com"] = &models.User{ID: 7, Email: "buyer@example.com"}
	repo.customers["cus_123"] = &models.Customer{UserID: 7, StripeCustomerID: "cus_123"}

	pm := testStripePaymentMethod("")
	pm.Customer = &stripe.Customer{ID: "cus_123"}
	gw := &fakeGateway{paymentMethod: pm}
	s := newTestService(repo, gw)

	if err := s.AttachPaymentMethod(context.Background(), "pm_123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.paymentMethods) != 1 {
		t.Fatalf("expected one stored payment method, got %d", len(repo.paymentMethods))
	}
	if repo.paymentMethods[0].UserID != 7 {
		t.Fatalf("expected fallback to resolve the owning user")
	}
}

func TestAttachPaymentMethodWithoutAnyEmail(t *testing.T) {
	repo := newFakeRepository()
	gw := &fakeGateway{paymentMethod: testStripePaymentMethod("")}
	s := newTestService(repo, gw)

	if err := s.AttachPaymentMethod(context.Background(), "pm_123"); err != nil {
		t.Fatalf("expected a logged skip, got %v", err)
	}
	if len(repo.paymentMethods) != 0 {
		t.Fatalf("expected no writes without an email")
	}
	if gw.pmFetches != 1 {
		t.Fatalf("a missing email is terminal, expected a single fetch, got %d", gw.pmFetches)
	}
}

func TestAttachPaymentMethodDefersUntilUserExists(t *testing.T) {
	repo := newFakeRepository()
	gw := &fakeGateway{paymentMethod: testStripePaymentMethod("buyer@example.com")}
	s := newTestService(repo, gw)

	sleeps := 0
	s.sleep = func(d time.Duration) {
		sleeps++
		if sleeps == 1 {
			repo.mu.Lock()
			repo.users["buyer@example.com"] = &models.User{ID: 7, Email: "buyer@example.com"}
			repo.mu.Unlock()
		}
	}

	if err := s.AttachPaymentMethod(context.Background(), "pm_123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.paymentMethods) != 1 {
		t.Fatalf("expected the deferred attach to land once the user existed")
	}
	if gw.pmFetches != 2 {
		t.Fatalf("expected a re-fetch per attempt, got %d", gw.pmFetches)
	}
}
