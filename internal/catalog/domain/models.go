package domain

import (
	"context"
	"time"
)

// CatalogProduct is the flattened subscription product handed to the UI.
// Capacity limits and the sponsorship fee ride on provider-side metadata.
type CatalogProduct struct {
	ID                           string    `json:"id"`
	Name                         string    `json:"name"`
	Description                  string    `json:"description"`
	Price                        float64   `json:"price"`
	StripePriceID                string    `json:"stripePriceId"`
	Features                     []string  `json:"features"`
	MaxPlayers                   int       `json:"maxPlayers"`
	MaxUsers                     int       `json:"maxUsers"`
	SponsorshipFeePercentage     float64   `json:"sponsorshipFeePercentage"`
	IsActive                     bool      `json:"isActive"`
	AvailableForNewSubscriptions bool      `json:"availableForNewSubscriptions"`
	TrialDays                    int       `json:"trialDays"`
	Currency                     string    `json:"currency"`
	CreatedAt                    time.Time `json:"createdAt"`
	UpdatedAt                    time.Time `json:"updatedAt"`
}

type Service interface {
	// Sync lists the provider's active products and maps them into catalog
	// records. Read-through only; nothing is persisted.
	Sync(ctx context.Context) ([]CatalogProduct, error)
}
