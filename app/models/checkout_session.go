package models

import "time"

const (
	CheckoutSessionModePayment      = "payment"
	CheckoutSessionModeSubscription = "subscription"
	CheckoutSessionModeSetup        = "setup"
)

const (
	CheckoutSessionStatusOpen     = "open"
	CheckoutSessionStatusComplete = "complete"
	CheckoutSessionStatusExpired  = "expired"
)

const (
	CheckoutSessionPaymentStatusUnpaid            = "unpaid"
	CheckoutSessionPaymentStatusPaid              = "paid"
	CheckoutSessionPaymentStatusNoPaymentRequired = "no_payment_required"
)

// CheckoutSession is the terminal record of a completed purchase flow
// (cs_123). Exactly one of PaymentIntentID / SubscriptionID is set, matching
// the session mode. Inserted once per session by the completion transaction;
// the primary key makes redelivered webhooks a benign conflict.
type CheckoutSession struct {
	ID              string    `gorm:"primaryKey;type:varchar(191)" json:"id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	PriceID         string    `gorm:"type:varchar(191);not null" json:"price_id"`
	Mode            string    `gorm:"type:varchar(16);not null" json:"mode"`
	Status          string    `gorm:"type:varchar(16);not null" json:"status"`
	PaymentStatus   string    `gorm:"type:varchar(24);not null" json:"payment_status"`
	AmountTotal     int64     `json:"amount_total"`
	AmountSubtotal  int64     `json:"amount_subtotal"`
	PaymentIntentID *string   `gorm:"type:varchar(191);default:null" json:"payment_intent_id,omitempty"`
	SubscriptionID  *string   `gorm:"type:varchar(191);default:null" json:"subscription_id,omitempty"`
	Created         time.Time `gorm:"autoCreateTime" json:"created"`

	User  User  `gorm:"foreignKey:UserID" json:"-"`
	Price Price `gorm:"foreignKey:PriceID" json:"-"`
}
