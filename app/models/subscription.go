package models

import "time"

const (
	SubscriptionStatusTrialing          = "trialing"
	SubscriptionStatusActive            = "active"
	SubscriptionStatusCanceled          = "canceled"
	SubscriptionStatusIncomplete        = "incomplete"
	SubscriptionStatusIncompleteExpired = "incomplete_expired"
	SubscriptionStatusPastDue           = "past_due"
	SubscriptionStatusUnpaid            = "unpaid"
	SubscriptionStatusPaused            = "paused"
)

// Subscription mirrors a Stripe subscription (sub_123). The row is created by
// the checkout completion transaction and afterwards maintained by
// customer.subscription.updated/deleted webhooks.
type Subscription struct {
	ID                 string     `gorm:"primaryKey;type:varchar(191)" json:"id"`
	UserID             uint       `gorm:"not null;index" json:"user_id"`
	PriceID            string     `gorm:"type:varchar(191);not null;index" json:"price_id"`
	Status             string     `gorm:"type:varchar(32);not null;index" json:"status"`
	Description        string     `gorm:"type:text" json:"description,omitempty"`
	Quantity           int64      `gorm:"not null;default:1" json:"quantity"`
	CancelAtPeriodEnd  bool       `gorm:"not null;default:false" json:"cancel_at_period_end"`
	CurrentPeriodStart time.Time  `gorm:"type:timestamp;not null" json:"current_period_start"`
	CurrentPeriodEnd   time.Time  `gorm:"type:timestamp;not null" json:"current_period_end"`
	CancelAt           *time.Time `gorm:"type:timestamp;default:null" json:"cancel_at,omitempty"`
	CanceledAt         *time.Time `gorm:"type:timestamp;default:null" json:"canceled_at,omitempty"`
	EndedAt            *time.Time `gorm:"type:timestamp;default:null" json:"ended_at,omitempty"`
	TrialStart         *time.Time `gorm:"type:timestamp;default:null" json:"trial_start,omitempty"`
	TrialEnd           *time.Time `gorm:"type:timestamp;default:null" json:"trial_end,omitempty"`
	Created            time.Time  `gorm:"type:timestamp;not null" json:"created"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	User  User  `gorm:"foreignKey:UserID" json:"-"`
	Price Price `gorm:"foreignKey:PriceID" json:"price,omitempty"`
}
