package domain

import "time"

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"

	// FallbackPaymentError is recorded when a failed intent carries no
	// last-error message.
	FallbackPaymentError = "Payment failed"
)

// Sponsorship is one sponsorship payment attempt. Records are created when a
// sponsor starts a payment; the webhook reconciler drives the terminal state.
type Sponsorship struct {
	SponsorshipID string     `gorm:"column:sponsorship_id;primaryKey" json:"sponsorship_id"`
	TenantID      string     `gorm:"column:tenant_id;index" json:"tenant_id"`
	Status        string     `gorm:"column:status;not null" json:"status"`
	PaymentStatus string     `gorm:"column:payment_status;not null" json:"payment_status"`
	PaymentError  *string    `gorm:"column:payment_error" json:"payment_error,omitempty"`
	PaymentDate   *time.Time `gorm:"column:payment_date" json:"payment_date,omitempty"`
	CreatedAt     time.Time  `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (Sponsorship) TableName() string {
	return "sponsorships"
}
