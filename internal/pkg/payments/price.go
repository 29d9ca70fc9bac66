package payments

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/startstack/startstack/app/models"
)

// GetActivePrice returns the local price row if it exists and is active.
func (s *Service) GetActivePrice(priceID string) (*models.Price, error) {
	return s.repo.ActivePriceByID(priceID)
}

// UpsertPrice mirrors a gateway price into the local store. A price must
// reference a product that exists locally; when the product.created event has
// not been processed yet the write is deferred with a bounded retry instead
// of failing on the foreign key.
func (s *Service) UpsertPrice(ctx context.Context, priceID string) error {
	_, err := s.withRetries("price", func() (bool, error) {
		data, err := s.gw.Price(ctx, priceID)
		if err != nil {
			return false, fmt.Errorf("retrieve price %s: %w", priceID, err)
		}

		mapped := mapPrice(data)
		if mapped.ProductID == "" {
			return false, fmt.Errorf("price %s has no product reference", priceID)
		}

		_, err = s.repo.ProductByID(mapped.ProductID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("lookup product %s: %w", mapped.ProductID, err)
		}

		if err := s.repo.UpsertPrice(mapped); err != nil {
			return false, fmt.Errorf("upsert price %s: %w", priceID, err)
		}
		return true, nil
	})
	return err
}

// DeletePrice removes the local mirror row for a deleted gateway price.
func (s *Service) DeletePrice(ctx context.Context, priceID string) error {
	if err := s.repo.DeletePrice(priceID); err != nil {
		return fmt.Errorf("delete price %s: %w", priceID, err)
	}
	return nil
}
