package models

import "time"

// PaymentMethod mirrors an attached Stripe payment method (pm_123).
type PaymentMethod struct {
	ID        string    `gorm:"primaryKey;type:varchar(191)" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Brand     string    `gorm:"type:varchar(32);not null;default:'unknown'" json:"brand"`
	Last4     string    `gorm:"type:varchar(4);not null" json:"last4"`
	ExpMonth  int64     `json:"exp_month"`
	ExpYear   int64     `json:"exp_year"`
	Created   time.Time `gorm:"autoCreateTime" json:"created"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
