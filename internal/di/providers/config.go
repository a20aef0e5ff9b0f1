// Package providers contains dependency injection providers for the storefront.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/proboots/storefront/internal/config"
	"github.com/proboots/storefront/internal/logger"
	"github.com/proboots/storefront/internal/money"
	"github.com/proboots/storefront/internal/validation"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting ProBoots storefront",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Data.BasePath,
		"catalog_backend", cfg.Catalog.Backend,
		"cart_backend", cfg.Cart.Backend,
	)

	return log, nil
}

// ProvideValidator provides the shared struct validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideMoneyFormatter provides the price formatter for the configured locale.
func ProvideMoneyFormatter(i do.Injector) (*money.Formatter, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return money.NewFormatter(cfg.Checkout.Locale, cfg.Checkout.CurrencySymbol)
}
