package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrInvalidSponsorship = errors.New("invalid_sponsorship")

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, sponsorshipID string) (*Sponsorship, error)
	// MarkPaid upserts the record into the paid terminal state.
	MarkPaid(ctx context.Context, db *gorm.DB, sponsorshipID string, now time.Time) error
	// MarkFailed upserts the record into the failed state. A record that has
	// already reached paid is left untouched; a late failed retry for the
	// same intent must not win.
	MarkFailed(ctx context.Context, db *gorm.DB, sponsorshipID, paymentError string, now time.Time) error
}
