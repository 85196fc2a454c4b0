package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	auditdomain "github.com/clubworks/sponsorpay/internal/audit/domain"
	stripedomain "github.com/clubworks/sponsorpay/internal/providers/stripe/domain"
	sponsorshipdomain "github.com/clubworks/sponsorpay/internal/sponsorship/domain"
	tenantdomain "github.com/clubworks/sponsorpay/internal/tenant/domain"
	webhookdomain "github.com/clubworks/sponsorpay/internal/webhook/domain"
	stripeapi "github.com/stripe/stripe-go/v82"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Gateway      stripedomain.Gateway
	Events       webhookdomain.Repository
	Tenants      tenantdomain.Repository
	Sponsorships sponsorshipdomain.Repository
	AuditSvc     auditdomain.Service
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	gateway      stripedomain.Gateway
	events       webhookdomain.Repository
	tenants      tenantdomain.Repository
	sponsorships sponsorshipdomain.Repository
	auditSvc     auditdomain.Service
}

func NewService(p Params) webhookdomain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("webhook.service"),
		gateway:      p.Gateway,
		events:       p.Events,
		tenants:      p.Tenants,
		sponsorships: p.Sponsorships,
		auditSvc:     p.AuditSvc,
	}
}

func (s *Service) Ingest(ctx context.Context, payload []byte, sigHeader string) webhookdomain.Result {
	event, err := s.gateway.ConstructEvent(payload, sigHeader)
	if err != nil {
		s.log.Warn("webhook signature verification failed", zap.Error(err))
		return webhookdomain.Result{Success: false, Error: err.Error()}
	}
	return s.Reconcile(ctx, event)
}

func (s *Service) Reconcile(ctx context.Context, event stripeapi.Event) webhookdomain.Result {
	if err := s.apply(ctx, event); err != nil {
		s.log.Error("webhook reconciliation failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return webhookdomain.Result{Success: false, Error: err.Error()}
	}
	return webhookdomain.Result{Success: true}
}

// apply dispatches one event to its transition. Unrecognized types are a
// deliberate no-op so future provider event types never break delivery.
func (s *Service) apply(ctx context.Context, event stripeapi.Event) error {
	switch string(event.Type) {
	case "account.updated":
		return s.applyAccountUpdated(ctx, event)
	case "payment_intent.succeeded":
		return s.applyPaymentSucceeded(ctx, event)
	case "payment_intent.payment_failed":
		return s.applyPaymentFailed(ctx, event)
	default:
		s.log.Debug("ignoring webhook event", zap.String("event_type", string(event.Type)))
		return nil
	}
}

type externalAccountPayload struct {
	Last4    string `json:"last4"`
	BankName string `json:"bank_name"`
}

type accountPayload struct {
	ID               string            `json:"id"`
	PayoutsEnabled   bool              `json:"payouts_enabled"`
	Metadata         map[string]string `json:"metadata"`
	ExternalAccounts struct {
		Data []externalAccountPayload `json:"data"`
	} `json:"external_accounts"`
}

type paymentIntentPayload struct {
	ID               string            `json:"id"`
	Metadata         map[string]string `json:"metadata"`
	LastPaymentError *struct {
		Message string `json:"message"`
	} `json:"last_payment_error"`
}

func (s *Service) applyAccountUpdated(ctx context.Context, event stripeapi.Event) error {
	var account accountPayload
	if err := json.Unmarshal(event.Data.Raw, &account); err != nil {
		return err
	}

	tenantID := account.Metadata["tenantId"]
	if tenantID == "" {
		// The account is not linked to a tenant we know about. Tolerated.
		s.log.Warn("account.updated without tenantId metadata", zap.String("account_id", account.ID))
		return nil
	}

	var bank *tenantdomain.BankAccount
	if len(account.ExternalAccounts.Data) > 0 {
		first := account.ExternalAccounts.Data[0]
		bank = &tenantdomain.BankAccount{
			Last4:    first.Last4,
			BankName: first.BankName,
		}
	}

	now := time.Now().UTC()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.events.Record(ctx, tx, event.ID, string(event.Type), now); err != nil {
			return err
		}
		return s.tenants.UpdatePayoutState(ctx, tx, tenantID, account.PayoutsEnabled, bank, now)
	})
	if errors.Is(err, webhookdomain.ErrEventAlreadyProcessed) {
		s.log.Debug("webhook event already processed", zap.String("event_id", event.ID))
		return nil
	}
	if err != nil {
		return err
	}

	_ = s.auditSvc.Record(ctx, "stripe", "tenant.payout_state.updated", "tenant", tenantID, map[string]any{
		"event_id":        event.ID,
		"payouts_enabled": account.PayoutsEnabled,
	})
	return nil
}

func (s *Service) applyPaymentSucceeded(ctx context.Context, event stripeapi.Event) error {
	intent, sponsorshipID, err := s.parseIntent(event)
	if err != nil || sponsorshipID == "" {
		return err
	}

	now := time.Now().UTC()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.events.Record(ctx, tx, event.ID, string(event.Type), now); err != nil {
			return err
		}
		return s.sponsorships.MarkPaid(ctx, tx, sponsorshipID, now)
	})
	if errors.Is(err, webhookdomain.ErrEventAlreadyProcessed) {
		s.log.Debug("webhook event already processed", zap.String("event_id", event.ID))
		return nil
	}
	if err != nil {
		return err
	}

	_ = s.auditSvc.Record(ctx, "stripe", "sponsorship.payment.paid", "sponsorship", sponsorshipID, map[string]any{
		"event_id":          event.ID,
		"payment_intent_id": intent.ID,
	})
	return nil
}

func (s *Service) applyPaymentFailed(ctx context.Context, event stripeapi.Event) error {
	intent, sponsorshipID, err := s.parseIntent(event)
	if err != nil || sponsorshipID == "" {
		return err
	}

	message := sponsorshipdomain.FallbackPaymentError
	if intent.LastPaymentError != nil && intent.LastPaymentError.Message != "" {
		message = intent.LastPaymentError.Message
	}

	now := time.Now().UTC()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.events.Record(ctx, tx, event.ID, string(event.Type), now); err != nil {
			return err
		}
		return s.sponsorships.MarkFailed(ctx, tx, sponsorshipID, message, now)
	})
	if errors.Is(err, webhookdomain.ErrEventAlreadyProcessed) {
		s.log.Debug("webhook event already processed", zap.String("event_id", event.ID))
		return nil
	}
	if err != nil {
		return err
	}

	_ = s.auditSvc.Record(ctx, "stripe", "sponsorship.payment.failed", "sponsorship", sponsorshipID, map[string]any{
		"event_id":          event.ID,
		"payment_intent_id": intent.ID,
		"payment_error":     message,
	})
	return nil
}

func (s *Service) parseIntent(event stripeapi.Event) (paymentIntentPayload, string, error) {
	var intent paymentIntentPayload
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return paymentIntentPayload{}, "", err
	}

	sponsorshipID := intent.Metadata["sponsorshipId"]
	if sponsorshipID == "" {
		// Payment intents created outside the sponsorship flow. Tolerated.
		s.log.Warn("payment intent event without sponsorshipId metadata",
			zap.String("event_type", string(event.Type)),
			zap.String("payment_intent_id", intent.ID))
	}
	return intent, sponsorshipID, nil
}
