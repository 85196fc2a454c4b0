package config

import (
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PlatformConfig carries the payment tunables of the platform. They live in an
// optional platform.yml so operators can adjust fees without a redeploy.
type PlatformConfig struct {
	// DefaultFeePercent is applied when a payment request carries no explicit
	// platform fee percentage.
	DefaultFeePercent float64 `mapstructure:"defaultFeePercent"`
	Currency          string  `mapstructure:"currency"`
	Country           string  `mapstructure:"country"`
	TrialDays         int     `mapstructure:"trialDays"`
}

func DefaultPlatformConfig() PlatformConfig {
	return PlatformConfig{
		DefaultFeePercent: 5,
		Currency:          "aud",
		Country:           "AU",
		TrialDays:         14,
	}
}

type PlatformConfigHolder struct {
	current atomic.Value // holds PlatformConfig
}

func NewPlatformConfigHolder() (*PlatformConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("platform")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/sponsorpay")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SPONSORPAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultPlatformConfig()
	v.SetDefault("platform.defaultFeePercent", defaults.DefaultFeePercent)
	v.SetDefault("platform.currency", defaults.Currency)
	v.SetDefault("platform.country", defaults.Country)
	v.SetDefault("platform.trialDays", defaults.TrialDays)

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileFound = false
	}

	holder := &PlatformConfigHolder{}
	if err := holder.reload(v); err != nil {
		return nil, err
	}

	if fileFound {
		v.OnConfigChange(func(_ fsnotify.Event) {
			_ = holder.reload(v)
		})
		v.WatchConfig()
	}

	return holder, nil
}

func (h *PlatformConfigHolder) reload(v *viper.Viper) error {
	var cfg PlatformConfig
	if err := v.UnmarshalKey("platform", &cfg); err != nil {
		return err
	}
	if cfg.DefaultFeePercent <= 0 {
		cfg.DefaultFeePercent = DefaultPlatformConfig().DefaultFeePercent
	}
	if strings.TrimSpace(cfg.Currency) == "" {
		cfg.Currency = DefaultPlatformConfig().Currency
	}
	if strings.TrimSpace(cfg.Country) == "" {
		cfg.Country = DefaultPlatformConfig().Country
	}
	if cfg.TrialDays <= 0 {
		cfg.TrialDays = DefaultPlatformConfig().TrialDays
	}
	h.current.Store(cfg)
	return nil
}

// Platform returns the currently loaded platform tunables.
func (h *PlatformConfigHolder) Platform() PlatformConfig {
	cfg, ok := h.current.Load().(PlatformConfig)
	if !ok {
		return DefaultPlatformConfig()
	}
	return cfg
}
