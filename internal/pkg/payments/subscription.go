package payments

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
)

// UpdateSubscription refreshes an existing local subscription row from the
// gateway's authoritative state. There is deliberately no insert path:
// subscription rows are only minted by the checkout completion transaction.
// If the row is missing (completion failed or is still in flight) the update
// is a logged no-op and a later webhook for the same subscription retries.
func (s *Service) UpdateSubscription(ctx context.Context, subscriptionID string) error {
	data, err := s.gw.Subscription(ctx, subscriptionID)
	if err != nil {
		return fmt.Errorf("retrieve subscription %s: %w", subscriptionID, err)
	}

	existing, err := s.repo.SubscriptionByID(subscriptionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[payments][subscription] no local row for %s, skipping update", subscriptionID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup subscription %s: %w", subscriptionID, err)
	}

	mapped := mapSubscription(data)
	// keep the locally owned association; everything else follows the gateway
	mapped.UserID = existing.UserID
	if mapped.PriceID == "" {
		mapped.PriceID = existing.PriceID
	}

	if err := s.repo.SaveSubscription(mapped); err != nil {
		return fmt.Errorf("update subscription %s: %w", subscriptionID, err)
	}
	return nil
}
