package payments

import (
	"strings"

	"github.com/lunarworks/LanternFox/internal/pkg/apperr"
	"github.com/lunarworks/LanternFox/internal/pkg/env"
)

// Config carries the payment and credit-pack settings read once at startup.
type Config struct {
	SecretKey     string
	WebhookSecret string
	PriceID       string
	BaseURL       string

	// Credits granted per purchased pack and the pack's list price in USD.
	PackAmount   int64
	PackPriceUSD int64
	// Credits one generation costs; consumed by the generation gate.
	CostPerImage int64
}

// ConfigFromEnv loads the payment configuration. Missing credentials are not
// fatal here: operations that need them fail with a configuration error.
func ConfigFromEnv() Config {
	return Config{
		SecretKey:     strings.TrimSpace(env.GetEnv("STRIPE_SECRET_KEY", "")),
		WebhookSecret: strings.TrimSpace(env.GetEnv("STRIPE_WEBHOOK_SECRET", "")),
		PriceID:       strings.TrimSpace(env.GetEnv("STRIPE_PRICE_ID", "")),
		BaseURL:       strings.TrimRight(strings.TrimSpace(env.GetEnv("PUBLIC_BASE_URL", "")), "/"),
		PackAmount:    env.GetEnvInt64("CREDIT_PACK_AMOUNT", 100),
		PackPriceUSD:  env.GetEnvInt64("CREDIT_PACK_PRICE_USD", 5),
		CostPerImage:  env.GetEnvInt64("CREDIT_COST_PER_IMAGE", 1),
	}
}

// CheckoutConfigured reports whether checkout sessions can be created.
func (c Config) CheckoutConfigured() error {
	if c.SecretKey == "" {
		return apperr.Wrap(apperr.CodeConfiguration, "STRIPE_SECRET_KEY is not configured", apperr.ErrConfiguration)
	}
	if c.PriceID == "" {
		return apperr.Wrap(apperr.CodeConfiguration, "STRIPE_PRICE_ID is not configured", apperr.ErrConfiguration)
	}
	if c.BaseURL == "" {
		return apperr.Wrap(apperr.CodeConfiguration, "PUBLIC_BASE_URL is not configured", apperr.ErrConfiguration)
	}
	return nil
}
