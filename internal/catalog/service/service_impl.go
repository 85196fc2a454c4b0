package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/clubworks/sponsorpay/internal/catalog/domain"
	"github.com/clubworks/sponsorpay/internal/config"
	stripedomain "github.com/clubworks/sponsorpay/internal/providers/stripe/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Platform *config.PlatformConfigHolder
	Gateway  stripedomain.Gateway
}

type Service struct {
	log      *zap.Logger
	platform *config.PlatformConfigHolder
	gateway  stripedomain.Gateway
}

func NewService(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("catalog.service"),
		platform: p.Platform,
		gateway:  p.Gateway,
	}
}

func (s *Service) Sync(ctx context.Context) ([]domain.CatalogProduct, error) {
	products, err := s.gateway.ListActiveProducts(ctx)
	if err != nil {
		s.log.Error("product sync failed", zap.Error(err))
		return nil, err
	}

	platform := s.platform.Platform()
	now := time.Now().UTC()

	catalog := make([]domain.CatalogProduct, 0, len(products))
	for _, product := range products {
		catalog = append(catalog, toCatalogProduct(product, platform, now))
	}
	return catalog, nil
}

func toCatalogProduct(p stripedomain.Product, platform config.PlatformConfig, now time.Time) domain.CatalogProduct {
	features := p.FeatureNames
	if features == nil {
		features = []string{}
	}

	currency := strings.ToUpper(p.Currency)
	if currency == "" {
		currency = strings.ToUpper(platform.Currency)
	}

	var price float64
	if p.UnitAmountMinor > 0 {
		price = float64(p.UnitAmountMinor) / 100
	}

	return domain.CatalogProduct{
		ID:                           p.ID,
		Name:                         p.Name,
		Description:                  p.Description,
		Price:                        price,
		StripePriceID:                p.DefaultPriceID,
		Features:                     features,
		MaxPlayers:                   metadataInt(p.Metadata, "maxPlayers", -1),
		MaxUsers:                     metadataInt(p.Metadata, "maxUsers", 1),
		SponsorshipFeePercentage:     metadataFloat(p.Metadata, "sponsorshipFeePercentage", platform.DefaultFeePercent),
		IsActive:                     p.Active,
		AvailableForNewSubscriptions: true,
		TrialDays:                    platform.TrialDays,
		Currency:                     currency,
		CreatedAt:                    p.CreatedAt,
		UpdatedAt:                    now,
	}
}

func metadataInt(metadata map[string]string, key string, fallback int) int {
	raw, ok := metadata[key]
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return value
}

func metadataFloat(metadata map[string]string, key string, fallback float64) float64 {
	raw, ok := metadata[key]
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fallback
	}
	return value
}
