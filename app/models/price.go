package models

import (
	"strconv"
	"time"
)

const (
	PricingTypeRecurring = "recurring"
	PricingTypeOneTime   = "one_time"
)

const (
	PricingIntervalDay   = "day"
	PricingIntervalWeek  = "week"
	PricingIntervalMonth = "month"
	PricingIntervalYear  = "year"
)

// Metadata key read from a price's Stripe metadata to enable trials.
const PriceMetadataTrialPeriodDays = "trialPeriodDays"

// Price mirrors a Stripe price (price_123). A price row is only persisted
// once its product exists locally; the reconciler defers otherwise.
type Price struct {
	ID            string            `gorm:"primaryKey;type:varchar(191)" json:"id"`
	Active        bool              `gorm:"not null;default:true;index" json:"active"`
	Currency      string            `gorm:"type:varchar(10);not null" json:"currency"`
	Description   string            `gorm:"type:varchar(200)" json:"description"`
	Interval      string            `gorm:"type:varchar(16)" json:"interval,omitempty"`
	IntervalCount int64             `json:"interval_count,omitempty"`
	Type          string            `gorm:"type:varchar(16);not null;index" json:"type"`
	UnitAmount    int64             `gorm:"not null" json:"unit_amount"`
	ProductID     string            `gorm:"type:varchar(191);not null;index" json:"product_id"`
	Metadata      map[string]string `gorm:"serializer:json;type:text" json:"metadata"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

// IsRecurring reports whether checkouts for this price run in subscription mode
func (p *Price) IsRecurring() bool {
	return p.Type == PricingTypeRecurring
}

// TrialPeriodDays returns the configured trial length, or 0 when absent/invalid
func (p *Price) TrialPeriodDays() int64 {
	raw, ok := p.Metadata[PriceMetadataTrialPeriodDays]
	if !ok {
		return 0
	}
	days, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || days < 0 {
		return 0
	}
	return days
}
