package repository

import (
	"context"
	"time"

	"github.com/clubworks/sponsorpay/internal/sponsorship/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, sponsorshipID string) (*domain.Sponsorship, error) {
	var sponsorship domain.Sponsorship
	err := db.WithContext(ctx).Raw(
		`SELECT sponsorship_id, tenant_id, status, payment_status, payment_error, payment_date, created_at, updated_at
		 FROM sponsorships WHERE sponsorship_id = ?`,
		sponsorshipID,
	).Scan(&sponsorship).Error
	if err != nil {
		return nil, err
	}
	if sponsorship.SponsorshipID == "" {
		return nil, nil
	}
	return &sponsorship, nil
}

func (r *repo) MarkPaid(ctx context.Context, db *gorm.DB, sponsorshipID string, now time.Time) error {
	result := db.WithContext(ctx).Exec(
		`UPDATE sponsorships
		 SET payment_status = ?, status = ?, payment_error = NULL, payment_date = ?, updated_at = ?
		 WHERE sponsorship_id = ?`,
		domain.PaymentStatusPaid,
		domain.PaymentStatusPaid,
		now,
		now,
		sponsorshipID,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	sponsorship := domain.Sponsorship{
		SponsorshipID: sponsorshipID,
		Status:        domain.PaymentStatusPaid,
		PaymentStatus: domain.PaymentStatusPaid,
		PaymentDate:   &now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return db.WithContext(ctx).Create(&sponsorship).Error
}

func (r *repo) MarkFailed(ctx context.Context, db *gorm.DB, sponsorshipID, paymentError string, now time.Time) error {
	result := db.WithContext(ctx).Exec(
		`UPDATE sponsorships
		 SET payment_status = ?, payment_error = ?, updated_at = ?
		 WHERE sponsorship_id = ? AND payment_status <> ?`,
		domain.PaymentStatusFailed,
		paymentError,
		now,
		sponsorshipID,
		domain.PaymentStatusPaid,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	existing, err := r.FindByID(ctx, db, sponsorshipID)
	if err != nil {
		return err
	}
	if existing != nil {
		// Already paid; the failed retry loses.
		return nil
	}

	sponsorship := domain.Sponsorship{
		SponsorshipID: sponsorshipID,
		Status:        domain.PaymentStatusPending,
		PaymentStatus: domain.PaymentStatusFailed,
		PaymentError:  &paymentError,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return db.WithContext(ctx).Create(&sponsorship).Error
}
