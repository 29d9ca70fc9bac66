package models

import "time"

// Customer maps a local user to a Stripe customer id (cus_123). The schema
// permits several mappings per user (composite key), lookups use the newest.
type Customer struct {
	UserID           uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	StripeCustomerID string    `gorm:"primaryKey;type:varchar(191)" json:"stripe_customer_id"`
	Created          time.Time `gorm:"autoCreateTime" json:"created"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
