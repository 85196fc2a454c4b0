package domain

import (
	"context"
	"errors"
	"time"

	stripeapi "github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
)

var ErrEventAlreadyProcessed = errors.New("event_already_processed")

// WebhookEvent records a provider event that was applied to local state.
// The primary key makes redelivered events a no-op.
type WebhookEvent struct {
	EventID     string    `gorm:"column:event_id;primaryKey" json:"event_id"`
	EventType   string    `gorm:"column:event_type;not null" json:"event_type"`
	ProcessedAt time.Time `gorm:"column:processed_at;not null" json:"processed_at"`
}

func (WebhookEvent) TableName() string {
	return "webhook_events"
}

// Result is what the transport layer gets back; reconciliation never raises.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type Repository interface {
	// Record inserts the processed-event marker, returning
	// ErrEventAlreadyProcessed when the event id was seen before.
	Record(ctx context.Context, db *gorm.DB, eventID, eventType string, at time.Time) error
}

type Service interface {
	// Ingest verifies the raw delivery and reconciles the decoded event.
	Ingest(ctx context.Context, payload []byte, sigHeader string) Result
	// Reconcile applies one verified event to the stores. All failures are
	// converted into a failed Result.
	Reconcile(ctx context.Context, event stripeapi.Event) Result
}
