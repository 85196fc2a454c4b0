package audit

import (
	"github.com/clubworks/sponsorpay/internal/audit/repository"
	"github.com/clubworks/sponsorpay/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
