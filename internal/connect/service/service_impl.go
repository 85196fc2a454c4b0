package service

import (
	"context"
	"strings"
	"time"

	auditdomain "github.com/clubworks/sponsorpay/internal/audit/domain"
	"github.com/clubworks/sponsorpay/internal/config"
	"github.com/clubworks/sponsorpay/internal/connect/domain"
	stripedomain "github.com/clubworks/sponsorpay/internal/providers/stripe/domain"
	tenantdomain "github.com/clubworks/sponsorpay/internal/tenant/domain"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Cfg      config.Config
	Platform *config.PlatformConfigHolder
	Gateway  stripedomain.Gateway
	Tenants  tenantdomain.Repository
	AuditSvc auditdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	cfg      config.Config
	platform *config.PlatformConfigHolder
	gateway  stripedomain.Gateway
	tenants  tenantdomain.Repository
	auditSvc auditdomain.Service
}

func NewService(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("connect.service"),
		cfg:      p.Cfg,
		platform: p.Platform,
		gateway:  p.Gateway,
		tenants:  p.Tenants,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) CreateAccount(ctx context.Context, tenantID string) (stripedomain.Account, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return stripedomain.Account{}, domain.ErrInvalidTenant
	}

	existing, err := s.tenants.FindByID(ctx, s.db, tenantID)
	if err != nil {
		return stripedomain.Account{}, err
	}
	if existing == nil {
		return stripedomain.Account{}, tenantdomain.ErrNotFound
	}
	if existing.Settings().ConnectedAccountID != "" {
		return stripedomain.Account{}, tenantdomain.ErrAccountAlreadyConnected
	}

	acct, err := s.gateway.CreateConnectAccount(ctx, tenantID)
	if err != nil {
		s.log.Error("create connect account failed", zap.String("tenant_id", tenantID), zap.Error(err))
		return stripedomain.Account{}, err
	}

	now := time.Now().UTC()
	if err := s.tenants.SetConnectedAccount(ctx, s.db, tenantID, acct.ID, now); err != nil {
		// The provider-side account exists but is not linked to the tenant.
		// No compensation is attempted; the orphan shows up in the log.
		s.log.Error("connected account created but tenant config write failed",
			zap.String("tenant_id", tenantID),
			zap.String("account_id", acct.ID),
			zap.Error(err))
		return stripedomain.Account{}, err
	}

	_ = s.auditSvc.Record(ctx, "system", "connect.account.created", "tenant", tenantID, map[string]any{
		"account_id": acct.ID,
	})

	return acct, nil
}

func (s *Service) OnboardingLink(ctx context.Context, accountID string) (stripedomain.AccountLink, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return stripedomain.AccountLink{}, domain.ErrInvalidAccount
	}

	settingsURL := s.cfg.SettingsURL()
	link, err := s.gateway.CreateAccountLink(ctx, accountID, settingsURL, settingsURL)
	if err != nil {
		s.log.Error("create onboarding link failed", zap.String("account_id", accountID), zap.Error(err))
		return stripedomain.AccountLink{}, err
	}
	return link, nil
}

func (s *Service) CreateSponsorshipPayment(ctx context.Context, req domain.CreatePaymentRequest) (domain.CreatePaymentResponse, error) {
	if req.Amount <= 0 {
		return domain.CreatePaymentResponse{}, domain.ErrInvalidAmount
	}
	sponsorshipID := strings.TrimSpace(req.SponsorshipID)
	if sponsorshipID == "" {
		return domain.CreatePaymentResponse{}, domain.ErrInvalidSponsorship
	}
	tenantID := strings.TrimSpace(req.TenantID)
	if tenantID == "" {
		return domain.CreatePaymentResponse{}, domain.ErrInvalidTenant
	}

	tenantConfig, err := s.tenants.FindByID(ctx, s.db, tenantID)
	if err != nil {
		return domain.CreatePaymentResponse{}, err
	}
	if tenantConfig == nil {
		return domain.CreatePaymentResponse{}, tenantdomain.ErrNotFound
	}
	settings := tenantConfig.Settings()
	if settings.ConnectedAccountID == "" {
		return domain.CreatePaymentResponse{}, tenantdomain.ErrAccountNotConnected
	}

	platform := s.platform.Platform()
	feePercent := req.PlatformFeePercent
	if feePercent <= 0 {
		feePercent = platform.DefaultFeePercent
	}

	chargeMinor := domain.ChargeMinorUnits(req.Amount)
	feeMinor := domain.PlatformFeeMinorUnits(chargeMinor, feePercent)

	intent, err := s.gateway.CreatePaymentIntent(ctx, stripedomain.CreatePaymentIntentRequest{
		AmountMinor:          chargeMinor,
		Currency:             platform.Currency,
		ApplicationFeeMinor:  feeMinor,
		DestinationAccountID: settings.ConnectedAccountID,
		ReceiptEmail:         strings.TrimSpace(req.SponsorEmail),
		Metadata: map[string]string{
			"sponsorshipId": sponsorshipID,
			"tenantId":      tenantID,
		},
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		s.log.Error("create sponsorship payment failed",
			zap.String("sponsorship_id", sponsorshipID),
			zap.String("tenant_id", tenantID),
			zap.Error(err))
		return domain.CreatePaymentResponse{}, err
	}

	_ = s.auditSvc.Record(ctx, "sponsor", "sponsorship.payment.initiated", "sponsorship", sponsorshipID, map[string]any{
		"tenant_id":    tenantID,
		"amount_minor": chargeMinor,
		"fee_minor":    feeMinor,
	})

	return domain.CreatePaymentResponse{
		ClientSecret: intent.ClientSecret,
		Success:      true,
	}, nil
}
