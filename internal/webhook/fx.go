package webhook

import (
	"github.com/clubworks/sponsorpay/internal/webhook/repository"
	"github.com/clubworks/sponsorpay/internal/webhook/service"
	"go.uber.org/fx"
)

var Module = fx.Module("webhook.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
