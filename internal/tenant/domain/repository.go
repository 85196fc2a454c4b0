package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrInvalidTenant           = errors.New("invalid_tenant")
	ErrNotFound                = errors.New("tenant_config_not_found")
	ErrAccountAlreadyConnected = errors.New("account_already_connected")
	ErrAccountNotConnected     = errors.New("account_not_connected")
)

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, tenantID string) (*TenantConfig, error)
	// SetConnectedAccount links a freshly created provider account to the
	// tenant. It refuses to overwrite an existing link.
	SetConnectedAccount(ctx context.Context, db *gorm.DB, tenantID, accountID string, now time.Time) error
	// UpdatePayoutState overwrites payoutsEnabled and bankAccount from an
	// account.updated event, leaving the connected account id untouched.
	UpdatePayoutState(ctx context.Context, db *gorm.DB, tenantID string, payoutsEnabled bool, bank *BankAccount, now time.Time) error
}
