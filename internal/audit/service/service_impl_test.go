package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/clubworks/sponsorpay/internal/audit/domain"
	auditrepo "github.com/clubworks/sponsorpay/internal/audit/repository"
	auditservice "github.com/clubworks/sponsorpay/internal/audit/service"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newService(t *testing.T) (auditdomain.Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "sponsorpay_test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&auditdomain.AuditLog{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := auditservice.NewService(auditservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  auditrepo.Provide(),
	})
	return svc, db
}

func TestRecord(t *testing.T) {
	svc, db := newService(t)

	err := svc.Record(context.Background(), "stripe", "sponsorship.payment.paid", "sponsorship", "sp_1", map[string]any{
		"event_id": "evt_1",
	})
	require.NoError(t, err)

	var entries []auditdomain.AuditLog
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	require.Equal(t, "stripe", entries[0].ActorType)
	require.Equal(t, "sponsorship.payment.paid", entries[0].Action)
	require.Equal(t, "sp_1", entries[0].TargetID)
	require.NotZero(t, entries[0].ID)
}

func TestRecordDefaultsActorAndTarget(t *testing.T) {
	svc, db := newService(t)

	err := svc.Record(context.Background(), "", "connect.account.created", "", "tenant_1", nil)
	require.NoError(t, err)

	var entry auditdomain.AuditLog
	require.NoError(t, db.First(&entry).Error)
	require.Equal(t, "system", entry.ActorType)
	require.Equal(t, "unknown", entry.TargetType)
}

func TestRecordRejectsEmptyAction(t *testing.T) {
	svc, _ := newService(t)

	err := svc.Record(context.Background(), "system", "  ", "tenant", "tenant_1", nil)
	require.ErrorIs(t, err, auditdomain.ErrInvalidAction)
}
