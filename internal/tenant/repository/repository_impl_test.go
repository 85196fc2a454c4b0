package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/clubworks/sponsorpay/internal/tenant/domain"
	"github.com/clubworks/sponsorpay/internal/tenant/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "sponsorpay_test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.TenantConfig{}))
	return db
}

func seedTenant(t *testing.T, db *gorm.DB, tenantID string, settings domain.StripeSettings) {
	t.Helper()

	config := domain.TenantConfig{
		TenantID:       tenantID,
		StripeSettings: datatypes.NewJSONType(settings),
		UpdatedAt:      time.Now().UTC(),
	}
	require.NoError(t, db.Create(&config).Error)
}

func TestFindByID(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.Provide()

	seedTenant(t, db, "tenant_1", domain.StripeSettings{ConnectedAccountID: "acct_1"})

	config, err := repo.FindByID(ctx, db, "tenant_1")
	require.NoError(t, err)
	require.NotNil(t, config)
	require.Equal(t, "acct_1", config.Settings().ConnectedAccountID)

	missing, err := repo.FindByID(ctx, db, "tenant_2")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestSetConnectedAccount(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.Provide()
	now := time.Now().UTC()

	seedTenant(t, db, "tenant_1", domain.StripeSettings{})

	require.NoError(t, repo.SetConnectedAccount(ctx, db, "tenant_1", "acct_1", now))

	config, err := repo.FindByID(ctx, db, "tenant_1")
	require.NoError(t, err)
	require.Equal(t, "acct_1", config.Settings().ConnectedAccountID)
	require.False(t, config.Settings().PayoutsEnabled)
}

func TestSetConnectedAccountRefusesOverwrite(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.Provide()
	now := time.Now().UTC()

	seedTenant(t, db, "tenant_1", domain.StripeSettings{ConnectedAccountID: "acct_old"})

	err := repo.SetConnectedAccount(ctx, db, "tenant_1", "acct_new", now)
	require.ErrorIs(t, err, domain.ErrAccountAlreadyConnected)

	config, findErr := repo.FindByID(ctx, db, "tenant_1")
	require.NoError(t, findErr)
	require.Equal(t, "acct_old", config.Settings().ConnectedAccountID)
}

func TestSetConnectedAccountUnknownTenant(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.Provide()

	err := repo.SetConnectedAccount(ctx, db, "tenant_missing", "acct_1", time.Now().UTC())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdatePayoutStateKeepsConnectedAccount(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.Provide()
	now := time.Now().UTC()

	seedTenant(t, db, "tenant_1", domain.StripeSettings{ConnectedAccountID: "acct_1"})

	bank := &domain.BankAccount{Last4: "4242", BankName: "Test Bank"}
	require.NoError(t, repo.UpdatePayoutState(ctx, db, "tenant_1", true, bank, now))

	config, err := repo.FindByID(ctx, db, "tenant_1")
	require.NoError(t, err)

	settings := config.Settings()
	require.Equal(t, "acct_1", settings.ConnectedAccountID)
	require.True(t, settings.PayoutsEnabled)
	require.NotNil(t, settings.BankAccount)
	require.Equal(t, "4242", settings.BankAccount.Last4)

	require.NoError(t, repo.UpdatePayoutState(ctx, db, "tenant_1", false, nil, now))

	config, err = repo.FindByID(ctx, db, "tenant_1")
	require.NoError(t, err)
	require.False(t, config.Settings().PayoutsEnabled)
	require.Nil(t, config.Settings().BankAccount)
	require.Equal(t, "acct_1", config.Settings().ConnectedAccountID)
}
