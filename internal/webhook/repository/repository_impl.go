package repository

import (
	"context"
	"time"

	"github.com/clubworks/sponsorpay/internal/webhook/domain"
	"github.com/clubworks/sponsorpay/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Record(ctx context.Context, conn *gorm.DB, eventID, eventType string, at time.Time) error {
	err := conn.WithContext(ctx).Exec(
		`INSERT INTO webhook_events (event_id, event_type, processed_at)
		 VALUES (?, ?, ?)`,
		eventID,
		eventType,
		at,
	).Error
	if db.IsDuplicateKeyErr(err) {
		return domain.ErrEventAlreadyProcessed
	}
	return err
}
