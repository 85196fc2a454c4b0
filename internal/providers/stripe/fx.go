package stripe

import (
	"github.com/clubworks/sponsorpay/internal/providers/stripe/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.stripe",
	fx.Provide(func(c *Client) domain.Gateway { return c }),
	fx.Provide(NewClient),
)
