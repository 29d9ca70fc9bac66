package payments

import (
	"context"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v81"

	"github.com/startstack/startstack/app/models"
)

func testStripePrice() *stripe.Price {
	return &stripe.Price{
		ID:         "price_123",
		Active:     true,
		Currency:   stripe.CurrencyEUR,
		Nickname:   "Pro monthly",
		Type:       stripe.PriceTypeRecurring,
		UnitAmount: 990,
		Recurring: &stripe.PriceRecurring{
			Interval:      stripe.PriceRecurringIntervalMonth,
			IntervalCount: 1,
		},
		Product: &stripe.Product{ID: "prod_123"},
	}
}

func TestUpsertPriceWritesWhenProductExists(t *testing.T) {
	repo := newFakeRepository()
	repo.products["prod_123"] = &models.Product{ID: "prod_123"}
	gw := &fakeGateway{price: testStripePrice()}
	s := newTestService(repo, gw)

	if err := s.UpsertPrice(context.Background(), "price_123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.priceUpserts != 1 {
		t.Fatalf("expected one price upsert, got %d", repo.priceUpserts)
	}
	if gw.priceFetches != 1 {
		t.Fatalf("expected one fetch, got %d", gw.priceFetches)
	}
	p := repo.prices["price_123"]
	if p == nil || p.ProductID != "prod_123" || p.Interval != "month" {
		t.Fatalf("unexpected stored price: %+v", p)
	}
}

func TestUpsertPriceDefersUntilProductArrives(t *testing.T) {
	repo := newFakeRepository()
	gw := &fakeGateway{price: testStripePrice()}
	s := newTestService(repo, gw)

	// product shows up while the price reconciler is waiting
	sleeps := 0
	s.sleep = func(time.Duration) {
		sleeps++
		if sleeps == 2 {
			_ = repo.UpsertProduct(&models.Product{ID: "prod_123"})
		}
	}

	if err := s.UpsertPrice(context.Background(), "price_123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.priceUpserts != 1 {
		t.Fatalf("expected one price upsert, got %d", repo.priceUpserts)
	}
	if repo.prices["price_123"] == nil {
		t.Fatalf("expected price to be stored after the product arrived")
	}
	// each attempt re-fetched the price rather than trusting a snapshot
	if gw.priceFetches != 3 {
		t.Fatalf("expected 3 price fetches, got %d", gw.priceFetches)
	}
}

func TestUpsertPriceGivesUpWithoutProduct(t *testing.T) {
	repo := newFakeRepository()
	gw := &fakeGateway{price: testStripePrice()}
	s := newTestService(repo, gw)

	if err := s.UpsertPrice(context.Background(), "price_123"); err != nil {
		t.Fatalf("exhaustion should not surface as an error, got %v", err)
	}
	if repo.priceUpserts != 0 {
		t.Fatalf("expected no price writes, got %d", repo.priceUpserts)
	}
	if want := defaultMaxRetries + 1; gw.priceFetches != want {
		t.Fatalf("expected %d fetches, got %d", want, gw.priceFetches)
	}
}

func TestUpsertPriceRejectsMissingProductRef(t *testing.T) {
	repo := newFakeRepository()
	price := testStripePrice()
	price.Product = nil
	gw := &fakeGateway{price: price}
	s := newTestService(repo, gw)

	if err := s.UpsertPrice(context.Background(), "price_123"); err == nil {
		t.Fatalf("expected error for price without a product reference")
	}
	if repo.priceUpserts != 0 {
		t.Fatalf("expected no writes, got %d", repo.priceUpserts)
	}
}

func TestDeletePrice(t *testing.T) {
	repo := newFakeRepository()
	repo.prices["price_123"] = &models.Price{ID: "price_123", Active: true}
	s := newTestService(repo, &fakeGateway{})

	if err := s.DeletePrice(context.Background(), "price_123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := repo.prices["price_123"]; ok {
		t.Fatalf("expected price to be deleted")
	}
}
