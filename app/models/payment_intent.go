package models

import "time"

const (
	PaymentIntentStatusRequiresPaymentMethod = "requires_payment_method"
	PaymentIntentStatusRequiresConfirmation  = "requires_confirmation"
	PaymentIntentStatusRequiresAction        = "requires_action"
	PaymentIntentStatusProcessing            = "processing"
	PaymentIntentStatusRequiresCapture       = "requires_capture"
	PaymentIntentStatusCanceled              = "canceled"
	PaymentIntentStatusSucceeded             = "succeeded"
)

// PaymentIntent mirrors a Stripe payment intent (pi_123) for one-time
// purchases; created by the checkout completion transaction.
type PaymentIntent struct {
	ID          string    `gorm:"primaryKey;type:varchar(191)" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Amount      int64     `gorm:"not null" json:"amount"`
	Status      string    `gorm:"type:varchar(32);not null" json:"status"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Created     time.Time `gorm:"type:timestamp;not null" json:"created"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
