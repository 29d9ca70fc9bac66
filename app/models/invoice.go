package models

import "time"

const (
	InvoiceStatusDraft         = "draft"
	InvoiceStatusOpen          = "open"
	InvoiceStatusPaid          = "paid"
	InvoiceStatusUncollectible = "uncollectible"
	InvoiceStatusVoid          = "void"
)

// Invoice mirrors a Stripe invoice (in_123). The payment intent and
// subscription references are only set when the referenced local rows exist.
type Invoice struct {
	ID               string    `gorm:"primaryKey;type:varchar(191)" json:"id"`
	UserID           uint      `gorm:"not null;index" json:"user_id"`
	Status           string    `gorm:"type:varchar(20);not null;index" json:"status"`
	AmountDue        int64     `gorm:"not null" json:"amount_due"`
	AmountPaid       int64     `gorm:"not null" json:"amount_paid"`
	AmountRemaining  int64     `gorm:"not null" json:"amount_remaining"`
	HostedInvoiceURL string    `gorm:"type:varchar(500)" json:"hosted_invoice_url,omitempty"`
	InvoiceNumber    string    `gorm:"type:varchar(64)" json:"invoice_number,omitempty"`
	InvoicePDF       string    `gorm:"type:varchar(500)" json:"invoice_pdf,omitempty"`
	PaymentIntentID  *string   `gorm:"type:varchar(191);default:null" json:"payment_intent_id,omitempty"`
	SubscriptionID   *string   `gorm:"type:varchar(191);default:null" json:"subscription_id,omitempty"`
	Created          time.Time `gorm:"type:timestamp;not null;index" json:"created"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
