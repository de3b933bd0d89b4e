package payments

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunarworks/LanternFox/internal/pkg/apperr"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", " sk_test_key ")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_key")
	t.Setenv("STRIPE_PRICE_ID", "price_1")
	t.Setenv("PUBLIC_BASE_URL", "https://lanternfox.example/")
	t.Setenv("CREDIT_PACK_AMOUNT", "250")
	t.Setenv("CREDIT_COST_PER_IMAGE", "2")

	cfg := ConfigFromEnv()

	assert.Equal(t, "sk_test_key", cfg.SecretKey)
	assert.Equal(t, "whsec_key", cfg.WebhookSecret)
	assert.Equal(t, "price_1", cfg.PriceID)
	// Trailing slashes are stripped so URL joins stay clean.
	assert.Equal(t, "https://lanternfox.example", cfg.BaseURL)
	assert.Equal(t, int64(250), cfg.PackAmount)
	assert.Equal(t, int64(2), cfg.CostPerImage)
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("CREDIT_PACK_AMOUNT", "")
	t.Setenv("CREDIT_PACK_PRICE_USD", "")
	t.Setenv("CREDIT_COST_PER_IMAGE", "")

	cfg := ConfigFromEnv()

	assert.Equal(t, int64(100), cfg.PackAmount)
	assert.Equal(t, int64(5), cfg.PackPriceUSD)
	assert.Equal(t, int64(1), cfg.CostPerImage)
}

func TestCheckoutConfigured(t *testing.T) {
	cfg := testConfig()
	require.NoError(t, cfg.CheckoutConfigured())

	for _, mutate := range []func(*Config){
		func(c *Config) { c.SecretKey = "" },
		func(c *Config) { c.PriceID = "" },
		func(c *Config) { c.BaseURL = "" },
	} {
		broken := testConfig()
		mutate(&broken)
		err := broken.CheckoutConfigured()
		assert.True(t, errors.Is(err, apperr.ErrConfiguration))
	}
}
