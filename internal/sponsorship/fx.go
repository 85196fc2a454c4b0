package sponsorship

import (
	"github.com/clubworks/sponsorpay/internal/sponsorship/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("sponsorship.repository",
	fx.Provide(repository.Provide),
)
