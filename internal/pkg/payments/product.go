package payments

import (
	"context"
	"fmt"
)

// UpsertProduct mirrors the product's current gateway state into the local
// catalog. Products are the root of the product->price dependency chain, so
// no deferred retry is needed here.
func (s *Service) UpsertProduct(ctx context.Context, productID string) error {
	data, err := s.gw.Product(ctx, productID)
	if err != nil {
		return fmt.Errorf("retrieve product %s: %w", productID, err)
	}

	if err := s.repo.UpsertProduct(mapProduct(data)); err != nil {
		return fmt.Errorf("upsert product %s: %w", productID, err)
	}
	return nil
}

// DeleteProduct removes the local mirror row for a deleted gateway product.
func (s *Service) DeleteProduct(ctx context.Context, productID string) error {
	if err := s.repo.DeleteProduct(productID); err != nil {
		return fmt.Errorf("delete product %s: %w", productID, err)
	}
	return nil
}
