// Package stripe implements the payment gateway on top of the Stripe SDK.
package stripe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/clubworks/sponsorpay/internal/config"
	"github.com/clubworks/sponsorpay/internal/providers/stripe/domain"
	stripeapi "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/account"
	"github.com/stripe/stripe-go/v82/accountlink"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/product"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"
)

type Client struct {
	log           *zap.Logger
	country       string
	webhookSecret string
}

// NewClient configures the Stripe SDK with the platform API key and returns
// the gateway implementation.
func NewClient(cfg config.Config, platform *config.PlatformConfigHolder, log *zap.Logger) (*Client, error) {
	if cfg.StripeSecretKey == "" {
		return nil, domain.ErrMissingAPIKey
	}
	stripeapi.Key = cfg.StripeSecretKey

	return &Client{
		log:           log.Named("providers.stripe"),
		country:       platform.Platform().Country,
		webhookSecret: cfg.StripeConnectWebhookSecret,
	}, nil
}

func (c *Client) CreateConnectAccount(ctx context.Context, tenantID string) (domain.Account, error) {
	params := &stripeapi.AccountParams{
		Type:    stripeapi.String(string(stripeapi.AccountTypeStandard)),
		Country: stripeapi.String(c.country),
	}
	params.Context = ctx
	params.AddMetadata("tenantId", tenantID)

	acct, err := account.New(params)
	if err != nil {
		c.log.Error("create connect account", zap.String("tenant_id", tenantID), zap.Error(err))
		return domain.Account{}, providerError(err)
	}

	return domain.Account{
		ID:             acct.ID,
		Type:           string(acct.Type),
		Country:        acct.Country,
		PayoutsEnabled: acct.PayoutsEnabled,
	}, nil
}

func (c *Client) CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (domain.AccountLink, error) {
	params := &stripeapi.AccountLinkParams{
		Account:    stripeapi.String(accountID),
		RefreshURL: stripeapi.String(refreshURL),
		ReturnURL:  stripeapi.String(returnURL),
		Type:       stripeapi.String("account_onboarding"),
	}
	params.Context = ctx

	link, err := accountlink.New(params)
	if err != nil {
		c.log.Error("create account link", zap.String("account_id", accountID), zap.Error(err))
		return domain.AccountLink{}, providerError(err)
	}

	return domain.AccountLink{
		URL:       link.URL,
		ExpiresAt: time.Unix(link.ExpiresAt, 0).UTC(),
	}, nil
}

func (c *Client) CreatePaymentIntent(ctx context.Context, req domain.CreatePaymentIntentRequest) (domain.PaymentIntent, error) {
	params := &stripeapi.PaymentIntentParams{
		Amount:             stripeapi.Int64(req.AmountMinor),
		Currency:           stripeapi.String(strings.ToLower(req.Currency)),
		PaymentMethodTypes: stripeapi.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	if req.ApplicationFeeMinor > 0 {
		params.ApplicationFeeAmount = stripeapi.Int64(req.ApplicationFeeMinor)
	}
	if req.DestinationAccountID != "" {
		params.TransferData = &stripeapi.PaymentIntentTransferDataParams{
			Destination: stripeapi.String(req.DestinationAccountID),
		}
	}
	if req.ReceiptEmail != "" {
		params.ReceiptEmail = stripeapi.String(req.ReceiptEmail)
	}
	if req.IdempotencyKey != "" {
		params.IdempotencyKey = stripeapi.String(req.IdempotencyKey)
	}
	for key, value := range req.Metadata {
		params.AddMetadata(key, value)
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		c.log.Error("create payment intent", zap.Error(err))
		return domain.PaymentIntent{}, providerError(err)
	}

	return domain.PaymentIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		AmountMinor:  intent.Amount,
	}, nil
}

func (c *Client) ListActiveProducts(ctx context.Context) ([]domain.Product, error) {
	params := &stripeapi.ProductListParams{
		Active: stripeapi.Bool(true),
	}
	params.Context = ctx
	params.AddExpand("data.default_price")

	var products []domain.Product
	iter := product.List(params)
	for iter.Next() {
		products = append(products, toProduct(iter.Product()))
	}
	if err := iter.Err(); err != nil {
		c.log.Error("list products", zap.Error(err))
		return nil, providerError(err)
	}
	return products, nil
}

// ConstructEvent verifies the webhook signature against the raw payload and
// returns the decoded event. Verification is delegated to the SDK. Connected
// accounts deliver events pinned to their own API version, so the SDK's
// version check is relaxed; the signature check is unaffected.
func (c *Client) ConstructEvent(payload []byte, sigHeader string) (stripeapi.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, c.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return stripeapi.Event{}, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}
	return event, nil
}

func toProduct(p *stripeapi.Product) domain.Product {
	out := domain.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Active:      p.Active,
		Metadata:    p.Metadata,
		CreatedAt:   time.Unix(p.Created, 0).UTC(),
	}
	if p.DefaultPrice != nil {
		out.DefaultPriceID = p.DefaultPrice.ID
		out.UnitAmountMinor = p.DefaultPrice.UnitAmount
		out.Currency = string(p.DefaultPrice.Currency)
	}
	for _, feature := range p.MarketingFeatures {
		if feature != nil && feature.Name != "" {
			out.FeatureNames = append(out.FeatureNames, feature.Name)
		}
	}
	return out
}

func providerError(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrProvider, err)
}
