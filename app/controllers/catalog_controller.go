package controllers

import (
	"log"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/startstack/startstack/app/models"
	"github.com/startstack/startstack/app/repository"
	"github.com/startstack/startstack/internal/pkg/cache"
)

const catalogCacheKey = "catalog:active"
const catalogCacheTTL = 5 * time.Minute

type catalogResponse struct {
	OneTimeProducts   []models.Product `json:"one_time_products"`
	RecurringProducts []models.Product `json:"recurring_products"`
}

// HandleCatalog returns the active products split by pricing model, cheapest
// first. The catalog only changes on webhook reconciliation, so it is served
// from cache when possible.
func HandleCatalog(c *fiber.Ctx) error {
	var cached catalogResponse
	if err := cache.GetJSON(catalogCacheKey, &cached); err == nil {
		return c.JSON(cached)
	}

	products, err := repository.GetGlobalFactory().GetCatalogRepository().GetAllActive()
	if err != nil {
		log.Printf("[catalog] load products: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load catalog")
	}

	response := splitCatalog(products)
	if err := cache.SetJSON(catalogCacheKey, response, catalogCacheTTL); err != nil {
		log.Printf("[catalog] cache write: %v", err)
	}
	return c.JSON(response)
}

// HandleCatalogProduct returns a single product with its active prices, for
// the product detail page.
func HandleCatalogProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "product id is required")
	}

	product, err := repository.GetGlobalFactory().GetCatalogRepository().GetByID(id)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Product not found")
	}
	if !product.Active {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Product not found")
	}

	return c.JSON(product)
}

// splitCatalog buckets products by whether they carry a one-time or a
// recurring price, each bucket ordered by its most expensive price ascending
// so the cheapest offering leads.
func splitCatalog(products []models.Product) catalogResponse {
	response := catalogResponse{
		OneTimeProducts:   []models.Product{},
		RecurringProducts: []models.Product{},
	}
	for _, p := range products {
		if hasPriceOfType(p, models.PricingTypeOneTime) {
			response.OneTimeProducts = append(response.OneTimeProducts, p)
		}
		if hasPriceOfType(p, models.PricingTypeRecurring) {
			response.RecurringProducts = append(response.RecurringProducts, p)
		}
	}
	sortByMaxPrice(response.OneTimeProducts)
	sortByMaxPrice(response.RecurringProducts)
	return response
}

func hasPriceOfType(p models.Product, pricingType string) bool {
	for _, price := range p.Prices {
		if price.Type == pricingType {
			return true
		}
	}
	return false
}

func sortByMaxPrice(products []models.Product) {
	maxPrice := func(p models.Product) int64 {
		var max int64
		for _, price := range p.Prices {
			if price.UnitAmount > max {
				max = price.UnitAmount
			}
		}
		return max
	}
	sort.SliceStable(products, func(i, j int) bool {
		return maxPrice(products[i]) < maxPrice(products[j])
	})
}
