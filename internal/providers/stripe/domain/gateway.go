package domain

import (
	"context"
	"errors"
	"time"

	stripeapi "github.com/stripe/stripe-go/v82"
)

var (
	ErrProvider         = errors.New("provider_error")
	ErrInvalidSignature = errors.New("invalid_signature")
	ErrMissingAPIKey    = errors.New("missing_api_key")
)

// Account describes a provisioned connected account.
type Account struct {
	ID             string `json:"id"`
	Type           string `json:"type"`
	Country        string `json:"country"`
	PayoutsEnabled bool   `json:"payouts_enabled"`
}

// AccountLink is a single-use onboarding URL for a connected account.
type AccountLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type CreatePaymentIntentRequest struct {
	AmountMinor          int64
	Currency             string
	ApplicationFeeMinor  int64
	DestinationAccountID string
	ReceiptEmail         string
	Metadata             map[string]string
	IdempotencyKey       string
}

type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	AmountMinor  int64  `json:"amount"`
}

// Product is a provider-side catalog product with its default price expanded.
type Product struct {
	ID              string
	Name            string
	Description     string
	Active          bool
	DefaultPriceID  string
	UnitAmountMinor int64
	Currency        string
	FeatureNames    []string
	Metadata        map[string]string
	CreatedAt       time.Time
}

// Gateway is the capability surface of the payment provider. Implementations
// wrap the vendor SDK; callers depend on this interface so tests can stub it.
type Gateway interface {
	CreateConnectAccount(ctx context.Context, tenantID string) (Account, error)
	CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (AccountLink, error)
	CreatePaymentIntent(ctx context.Context, req CreatePaymentIntentRequest) (PaymentIntent, error)
	ListActiveProducts(ctx context.Context) ([]Product, error)
	ConstructEvent(payload []byte, sigHeader string) (stripeapi.Event, error)
}
