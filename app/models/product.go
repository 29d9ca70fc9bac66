package models

import "time"

// Product mirrors a Stripe product (prod_123). Rows are written only by the
// webhook reconciler and removed on product.deleted events.
type Product struct {
	ID                string            `gorm:"primaryKey;type:varchar(191)" json:"id"`
	Active            bool              `gorm:"not null;default:true;index" json:"active"`
	Name              string            `gorm:"type:varchar(200);not null" json:"name"`
	Description       string            `gorm:"type:text" json:"description"`
	Image             string            `gorm:"type:varchar(500)" json:"image,omitempty"`
	MarketingFeatures []string          `gorm:"serializer:json;type:text" json:"marketing_features"`
	Metadata          map[string]string `gorm:"serializer:json;type:text" json:"metadata"`
	UpdatedAt         time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	Prices []Price `gorm:"foreignKey:ProductID" json:"prices,omitempty"`
}
