package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/clubworks/sponsorpay/internal/sponsorship/domain"
	"github.com/clubworks/sponsorpay/internal/sponsorship/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "sponsorpay_test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Sponsorship{}))
	return db
}

func TestMarkPaidUpdatesExistingRecord(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.Provide()
	now := time.Now().UTC()

	failedMsg := "card declined"
	require.NoError(t, db.Create(&domain.Sponsorship{
		SponsorshipID: "sp_1",
		TenantID:      "tenant_1",
		Status:        domain.PaymentStatusPending,
		PaymentStatus: domain.PaymentStatusFailed,
		PaymentError:  &failedMsg,
		CreatedAt:     now,
		UpdatedAt:     now,
	}).Error)

	require.NoError(t, repo.MarkPaid(ctx, db, "sp_1", now))

	sponsorship, err := repo.FindByID(ctx, db, "sp_1")
	require.NoError(t, err)
	require.Equal(t, domain.PaymentStatusPaid, sponsorship.PaymentStatus)
	require.Equal(t, domain.PaymentStatusPaid, sponsorship.Status)
	require.Nil(t, sponsorship.PaymentError)
	require.NotNil(t, sponsorship.PaymentDate)
	require.Equal(t, "tenant_1", sponsorship.TenantID)
}

func TestMarkPaidCreatesMissingRecord(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.Provide()

	require.NoError(t, repo.MarkPaid(ctx, db, "sp_1", time.Now().UTC()))

	sponsorship, err := repo.FindByID(ctx, db, "sp_1")
	require.NoError(t, err)
	require.NotNil(t, sponsorship)
	require.Equal(t, domain.PaymentStatusPaid, sponsorship.PaymentStatus)
}

func TestMarkFailedRecordsError(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.Provide()
	now := time.Now().UTC()

	require.NoError(t, db.Create(&domain.Sponsorship{
		SponsorshipID: "sp_1",
		Status:        domain.PaymentStatusPending,
		PaymentStatus: domain.PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}).Error)

	require.NoError(t, repo.MarkFailed(ctx, db, "sp_1", "Your card was declined.", now))

	sponsorship, err := repo.FindByID(ctx, db, "sp_1")
	require.NoError(t, err)
	require.Equal(t, domain.PaymentStatusFailed, sponsorship.PaymentStatus)
	require.Equal(t, domain.PaymentStatusPending, sponsorship.Status)
	require.NotNil(t, sponsorship.PaymentError)
	require.Equal(t, "Your card was declined.", *sponsorship.PaymentError)
}

func TestMarkFailedDoesNotOverwritePaid(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.Provide()
	now := time.Now().UTC()

	require.NoError(t, repo.MarkPaid(ctx, db, "sp_1", now))
	require.NoError(t, repo.MarkFailed(ctx, db, "sp_1", "late retry", now))

	sponsorship, err := repo.FindByID(ctx, db, "sp_1")
	require.NoError(t, err)
	require.Equal(t, domain.PaymentStatusPaid, sponsorship.PaymentStatus)
	require.Nil(t, sponsorship.PaymentError)
}

func TestMarkFailedCreatesMissingRecord(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.Provide()

	require.NoError(t, repo.MarkFailed(ctx, db, "sp_1", "Payment failed", time.Now().UTC()))

	sponsorship, err := repo.FindByID(ctx, db, "sp_1")
	require.NoError(t, err)
	require.NotNil(t, sponsorship)
	require.Equal(t, domain.PaymentStatusPending, sponsorship.Status)
	require.Equal(t, domain.PaymentStatusFailed, sponsorship.PaymentStatus)
}
