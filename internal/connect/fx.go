package connect

import (
	"github.com/clubworks/sponsorpay/internal/connect/service"
	"go.uber.org/fx"
)

var Module = fx.Module("connect.service",
	fx.Provide(service.NewService),
)
