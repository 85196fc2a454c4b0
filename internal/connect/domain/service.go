package domain

import (
	"context"
	"errors"
	"math"

	stripedomain "github.com/clubworks/sponsorpay/internal/providers/stripe/domain"
)

var (
	ErrInvalidTenant      = errors.New("invalid_tenant")
	ErrInvalidAccount     = errors.New("invalid_account")
	ErrInvalidAmount      = errors.New("invalid_amount")
	ErrInvalidSponsorship = errors.New("invalid_sponsorship")
)

type CreatePaymentRequest struct {
	// Amount is in major currency units (dollars).
	Amount             float64
	SponsorshipID      string
	TenantID           string
	SponsorEmail       string
	PlatformFeePercent float64
}

type CreatePaymentResponse struct {
	ClientSecret string `json:"client_secret"`
	Success      bool   `json:"success"`
}

type Service interface {
	CreateAccount(ctx context.Context, tenantID string) (stripedomain.Account, error)
	OnboardingLink(ctx context.Context, accountID string) (stripedomain.AccountLink, error)
	CreateSponsorshipPayment(ctx context.Context, req CreatePaymentRequest) (CreatePaymentResponse, error)
}

// ChargeMinorUnits converts a major-unit amount to integer minor units. Exact
// for two-decimal currencies.
func ChargeMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// PlatformFeeMinorUnits computes the application fee on a minor-unit charge.
func PlatformFeeMinorUnits(chargeMinor int64, feePercent float64) int64 {
	return int64(math.Round(float64(chargeMinor) * feePercent / 100))
}
