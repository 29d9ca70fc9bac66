package payments

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/startstack/startstack/app/models"
)

// AttachPaymentMethod links a gateway payment method to the local user that
// owns it. The owning user is found by the billing email on the payment
// method; billing-portal-initiated updates omit that email, so we fall back
// to resolving it through the customer mapping. If the user row does not
// exist yet (the completion transaction may still be in flight) the attach is
// deferred with a bounded retry.
func (s *Service) AttachPaymentMethod(ctx context.Context, paymentMethodID string) error {
	_, err := s.withRetries("paymentMethod", func() (bool, error) {
		data, err := s.gw.PaymentMethod(ctx, paymentMethodID)
		if err != nil {
			return false, fmt.Errorf("retrieve payment method %s: %w", paymentMethodID, err)
		}

		email := ""
		if data.BillingDetails != nil {
			email = models.NormalizeEmail(data.BillingDetails.Email)
		}
		if email == "" && data.Customer != nil {
			customer, err := s.repo.CustomerByStripeID(data.Customer.ID)
			if err == nil {
				if user, err := s.repo.UserByID(customer.UserID); err == nil {
					email = models.NormalizeEmail(user.Email)
				}
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return false, fmt.Errorf("lookup customer %s: %w", data.Customer.ID, err)
			}
		}

		if email == "" {
			log.Printf("[payments][paymentMethod] no email on payment method %s, unable to attach", paymentMethodID)
			return true, nil
		}

		user, err := s.repo.UserByEmail(email)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("lookup user by email: %w", err)
		}

		pm := mapPaymentMethod(data)
		pm.UserID = user.ID
		if err := s.repo.CreatePaymentMethod(pm); err != nil {
			// duplicate delivery hits the primary key; benign
			log.Printf("[payments][paymentMethod] insert %s: %v", paymentMethodID, err)
		}
		return true, nil
	})
	return err
}
