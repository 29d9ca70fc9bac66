package payments

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/stripe/stripe-go/v81"
	"gorm.io/gorm"

	"github.com/startstack/startstack/app/models"
	"github.com/startstack/startstack/internal/pkg/constants"
)

// CreateCheckoutSession creates an embedded checkout session for the given
// price. Subscriptions require a signed-in actor; one-time payments work for
// guests and let the gateway mint the customer. Failures never leak details
// to the caller, only a generic error status.
func (s *Service) CreateCheckoutSession(ctx context.Context, actor Actor, priceID string) CheckoutResult {
	priceDetails, err := s.repo.ActivePriceByID(priceID)
	if err != nil {
		log.Printf("[payments][checkout][create] price %s: %v", priceID, err)
		return CheckoutResult{Status: StatusError}
	}

	mode := models.CheckoutSessionModePayment
	if priceDetails.IsRecurring() {
		mode = models.CheckoutSessionModeSubscription
	}

	if mode == models.CheckoutSessionModeSubscription && actor.Email == "" {
		return CheckoutResult{Status: StatusRequiresSession}
	}

	stripeCustomerID := ""
	if actor.UserID != 0 {
		customer, err := s.repo.CustomerByUserID(actor.UserID)
		if err == nil {
			stripeCustomerID = customer.StripeCustomerID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[payments][checkout][create] customer lookup for user %d: %v", actor.UserID, err)
			return CheckoutResult{Status: StatusError}
		}
	}
	// subscriptions need a customer up front so the gateway can bill renewals
	if mode == models.CheckoutSessionModeSubscription && stripeCustomerID == "" {
		customer, err := s.gw.CreateCustomer(ctx, actor.Email)
		if err != nil {
			log.Printf("[payments][checkout][create] create customer: %v", err)
			return CheckoutResult{Status: StatusError}
		}
		stripeCustomerID = customer.ID
	}

	params := &stripe.CheckoutSessionParams{
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		Mode:                stripe.String(mode),
		UIMode:              stripe.String(string(stripe.CheckoutSessionUIModeEmbedded)),
		AllowPromotionCodes: stripe.Bool(s.cfg.AllowPromotionCodes),
		ConsentCollection: &stripe.CheckoutSessionConsentCollectionParams{
			Promotions: stripe.String(string(stripe.CheckoutSessionConsentCollectionPromotionsAuto)),
		},
		ReturnURL: stripe.String(fmt.Sprintf("%s%s?id={CHECKOUT_SESSION_ID}", s.cfg.BaseURL, constants.CheckoutThankYouRoute)),
	}
	if stripeCustomerID != "" {
		params.Customer = stripe.String(stripeCustomerID)
	}
	if mode == models.CheckoutSessionModePayment {
		// the gateway only creates customers for one-time payments when told to;
		// subscriptions get one by default
		if stripeCustomerID == "" {
			params.CustomerCreation = stripe.String(string(stripe.CheckoutSessionCustomerCreationAlways))
		}
		params.InvoiceCreation = &stripe.CheckoutSessionInvoiceCreationParams{
			Enabled: stripe.Bool(true),
		}
	}
	if mode == models.CheckoutSessionModeSubscription {
		if days := priceDetails.TrialPeriodDays(); days > 0 {
			params.SubscriptionData = &stripe.CheckoutSessionSubscriptionDataParams{
				TrialPeriodDays: stripe.Int64(days),
				TrialSettings: &stripe.CheckoutSessionSubscriptionDataTrialSettingsParams{
					EndBehavior: &stripe.CheckoutSessionSubscriptionDataTrialSettingsEndBehaviorParams{
						MissingPaymentMethod: stripe.String("cancel"),
					},
				},
			}
			params.PaymentMethodCollection = stripe.String("if_required")
		}
	}

	session, err := s.gw.CreateCheckoutSession(ctx, params)
	if err != nil {
		log.Printf("[payments][checkout][create] create session: %v", err)
		return CheckoutResult{Status: StatusError}
	}

	s.capture("checkout_session_created", map[string]interface{}{
		"priceId":          priceID,
		"stripeCustomerId": stripeCustomerID,
		"sessionId":        session.ID,
	})

	return CheckoutResult{
		Status:       StatusSuccess,
		ClientSecret: session.ClientSecret,
	}
}

// GetCheckoutSession retrieves a session with its line items, for the
// thank-you page.
func (s *Service) GetCheckoutSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error) {
	return s.gw.CheckoutSession(ctx, sessionID)
}

// CompleteCheckout materializes a paid checkout session into local rows:
// resolve or create the user by the checkout email, map the customer, insert
// the subscription or payment intent per the session mode, and record the
// session itself. The writes run in one transaction. Post-commit the
// newsletter consent and the guest sign-in mail are handled asynchronously.
func (s *Service) CompleteCheckout(ctx context.Context, sessionID string) error {
	data, err := s.gw.CheckoutSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("retrieve checkout session %s: %w", sessionID, err)
	}

	if data.PaymentStatus == stripe.CheckoutSessionPaymentStatusUnpaid {
		return fmt.Errorf("session %s is unpaid, completion halted", sessionID)
	}
	if data.CustomerDetails == nil || data.CustomerDetails.Email == "" {
		return fmt.Errorf("session %s has no email, completion halted", sessionID)
	}
	email := models.NormalizeEmail(data.CustomerDetails.Email)
	if data.Customer == nil || data.Customer.ID == "" {
		return fmt.Errorf("session %s has no customer, completion halted", sessionID)
	}
	priceID := ""
	if data.LineItems != nil && len(data.LineItems.Data) > 0 && data.LineItems.Data[0].Price != nil {
		priceID = data.LineItems.Data[0].Price.ID
	}
	if priceID == "" {
		return fmt.Errorf("session %s has no price in line items, completion halted", sessionID)
	}
	if data.Mode == stripe.CheckoutSessionModePayment && data.PaymentIntent == nil {
		return fmt.Errorf("session %s is payment mode without a payment intent, completion halted", sessionID)
	}
	if data.Mode == stripe.CheckoutSessionModeSubscription && data.Subscription == nil {
		return fmt.Errorf("session %s is subscription mode without a subscription, completion halted", sessionID)
	}

	rec := &CompletionRecord{
		Email:            email,
		StripeCustomerID: data.Customer.ID,
		Session: models.CheckoutSession{
			ID:             data.ID,
			PriceID:        priceID,
			Mode:           string(data.Mode),
			Status:         string(data.Status),
			PaymentStatus:  string(data.PaymentStatus),
			AmountTotal:    data.AmountTotal,
			AmountSubtotal: data.AmountSubtotal,
		},
	}

	switch data.Mode {
	case stripe.CheckoutSessionModeSubscription:
		subData, err := s.gw.Subscription(ctx, data.Subscription.ID)
		if err != nil {
			return fmt.Errorf("retrieve subscription %s: %w", data.Subscription.ID, err)
		}
		sub := mapSubscription(subData)
		sub.PriceID = priceID
		rec.Subscription = sub
		rec.Session.SubscriptionID = &sub.ID
	case stripe.CheckoutSessionModePayment:
		piData, err := s.gw.PaymentIntent(ctx, data.PaymentIntent.ID)
		if err != nil {
			return fmt.Errorf("retrieve payment intent %s: %w", data.PaymentIntent.ID, err)
		}
		pi := mapPaymentIntent(piData)
		rec.PaymentIntent = pi
		rec.Session.PaymentIntentID = &pi.ID
	}

	if err := s.repo.CompleteCheckout(rec); err != nil {
		return fmt.Errorf("completion transaction for session %s: %w", sessionID, err)
	}

	s.notifyCompletion(data, email)
	return nil
}

// notifyCompletion runs the post-commit side effects in the background. A
// failed side effect is logged and never fails the completed checkout.
func (s *Service) notifyCompletion(data *stripe.CheckoutSession, email string) {
	if s.cfg.Notifier == nil {
		return
	}
	go func() {
		if data.Consent != nil {
			switch data.Consent.Promotions {
			case stripe.CheckoutSessionConsentPromotionsOptIn:
				if err := s.cfg.Notifier.SubscribeContact(email); err != nil {
					log.Printf("[payments][checkout][complete] newsletter subscribe: %v", err)
				}
			case stripe.CheckoutSessionConsentPromotionsOptOut:
				if err := s.cfg.Notifier.UnsubscribeContact(email); err != nil {
					log.Printf("[payments][checkout][complete] newsletter unsubscribe: %v", err)
				}
			}
		}

		// guests who buy one-time products sign in through the mailed link
		if data.Mode == stripe.CheckoutSessionModePayment {
			if err := s.cfg.Notifier.SendMagicLink(email); err != nil {
				log.Printf("[payments][checkout][complete] magic link: %v", err)
			}
		}
	}()
}

// BillingPortalURL creates a billing portal session for the user's gateway
// customer and returns the URL to redirect to.
func (s *Service) BillingPortalURL(ctx context.Context, userID uint, returnURL string) (string, error) {
	customer, err := s.repo.CustomerByUserID(userID)
	if err != nil {
		return "", fmt.Errorf("customer for user %d: %w", userID, err)
	}
	return s.gw.CreateBillingPortalSession(ctx, customer.StripeCustomerID, returnURL)
}
