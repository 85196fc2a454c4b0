package repository

import (
	"context"
	"time"

	"github.com/clubworks/sponsorpay/internal/tenant/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID string) (*domain.TenantConfig, error) {
	var config domain.TenantConfig
	err := db.WithContext(ctx).Raw(
		`SELECT tenant_id, stripe_settings, updated_at
		 FROM tenant_configs WHERE tenant_id = ?`,
		tenantID,
	).Scan(&config).Error
	if err != nil {
		return nil, err
	}
	if config.TenantID == "" {
		return nil, nil
	}
	return &config, nil
}

func (r *repo) SetConnectedAccount(ctx context.Context, db *gorm.DB, tenantID, accountID string, now time.Time) error {
	config, err := r.FindByID(ctx, db, tenantID)
	if err != nil {
		return err
	}
	if config == nil {
		return domain.ErrNotFound
	}

	settings := config.Settings()
	if settings.ConnectedAccountID != "" {
		return domain.ErrAccountAlreadyConnected
	}
	settings.ConnectedAccountID = accountID
	settings.PayoutsEnabled = false

	return r.writeSettings(ctx, db, tenantID, settings, now)
}

func (r *repo) UpdatePayoutState(ctx context.Context, db *gorm.DB, tenantID string, payoutsEnabled bool, bank *domain.BankAccount, now time.Time) error {
	config, err := r.FindByID(ctx, db, tenantID)
	if err != nil {
		return err
	}
	if config == nil {
		return domain.ErrNotFound
	}

	settings := config.Settings()
	settings.PayoutsEnabled = payoutsEnabled
	settings.BankAccount = bank

	return r.writeSettings(ctx, db, tenantID, settings, now)
}

func (r *repo) writeSettings(ctx context.Context, db *gorm.DB, tenantID string, settings domain.StripeSettings, now time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE tenant_configs SET stripe_settings = ?, updated_at = ? WHERE tenant_id = ?`,
		datatypes.NewJSONType(settings),
		now,
		tenantID,
	).Error
}
