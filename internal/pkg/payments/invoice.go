package payments

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
)

// UpsertInvoice stores a gateway invoice once the rows it references exist
// locally. An invoice is only written when its customer mapping is present
// and at least one of its payment intent or subscription has been persisted;
// until then the write is deferred with a bounded retry, since the checkout
// completion that creates those rows may arrive after the invoice event.
func (s *Service) UpsertInvoice(ctx context.Context, invoiceID string) error {
	_, err := s.withRetries("invoice", func() (bool, error) {
		data, err := s.gw.Invoice(ctx, invoiceID)
		if err != nil {
			return false, fmt.Errorf("retrieve invoice %s: %w", invoiceID, err)
		}
		if data.Customer == nil || data.Customer.ID == "" {
			log.Printf("[payments][invoice] invoice %s has no customer, skipping", invoiceID)
			return true, nil
		}

		customer, err := s.repo.CustomerByStripeID(data.Customer.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("lookup customer %s: %w", data.Customer.ID, err)
		}

		var paymentIntentID, subscriptionID *string
		if data.PaymentIntent != nil && data.PaymentIntent.ID != "" {
			if _, err := s.repo.PaymentIntentByID(data.PaymentIntent.ID); err == nil {
				id := data.PaymentIntent.ID
				paymentIntentID = &id
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return false, fmt.Errorf("lookup payment intent %s: %w", data.PaymentIntent.ID, err)
			}
		}
		if data.Subscription != nil && data.Subscription.ID != "" {
			if _, err := s.repo.SubscriptionByID(data.Subscription.ID); err == nil {
				id := data.Subscription.ID
				subscriptionID = &id
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return false, fmt.Errorf("lookup subscription %s: %w", data.Subscription.ID, err)
			}
		}

		if paymentIntentID == nil && subscriptionID == nil {
			return false, nil
		}

		inv := mapInvoice(data)
		inv.UserID = customer.UserID
		inv.PaymentIntentID = paymentIntentID
		inv.SubscriptionID = subscriptionID
		if err := s.repo.UpsertInvoice(inv); err != nil {
			return false, fmt.Errorf("upsert invoice %s: %w", invoiceID, err)
		}
		return true, nil
	})
	return err
}
