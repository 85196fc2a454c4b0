package domain

import (
	"time"

	"gorm.io/datatypes"
)

// BankAccount is the external payout account surfaced to the tenant UI.
type BankAccount struct {
	Last4    string `json:"last4"`
	BankName string `json:"bankName"`
}

// StripeSettings is the nested Stripe document on a tenant config record.
// ConnectedAccountID is written exactly once by account provisioning and is
// immutable afterwards; the payout fields are owned by webhook reconciliation.
type StripeSettings struct {
	ConnectedAccountID string       `json:"connectedAccountId,omitempty"`
	PayoutsEnabled     bool         `json:"payoutsEnabled"`
	BankAccount        *BankAccount `json:"bankAccount,omitempty"`
}

type TenantConfig struct {
	TenantID       string                             `gorm:"column:tenant_id;primaryKey" json:"tenant_id"`
	StripeSettings datatypes.JSONType[StripeSettings] `gorm:"column:stripe_settings" json:"stripe_settings"`
	UpdatedAt      time.Time                          `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (TenantConfig) TableName() string {
	return "tenant_configs"
}

// Settings unwraps the JSON column.
func (t *TenantConfig) Settings() StripeSettings {
	return t.StripeSettings.Data()
}
