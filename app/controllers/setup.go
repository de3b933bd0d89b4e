package controllers

import (
	"time"

	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/lunarworks/LanternFox/app/repository"
	"github.com/lunarworks/LanternFox/internal/pkg/blobstore"
	"github.com/lunarworks/LanternFox/internal/pkg/cache"
	"github.com/lunarworks/LanternFox/internal/pkg/database"
	"github.com/lunarworks/LanternFox/internal/pkg/env"
	"github.com/lunarworks/LanternFox/internal/pkg/generation"
	"github.com/lunarworks/LanternFox/internal/pkg/ledger"
	"github.com/lunarworks/LanternFox/internal/pkg/payments"
	"github.com/lunarworks/LanternFox/internal/pkg/ratelimit"
)

var (
	ledgerService     *ledger.Service
	paymentConfig     payments.Config
	checkoutClient    *payments.Client
	webhookHandler    *payments.WebhookHandler
	generationService *generation.Service
	blobClient        *blobstore.Client
	uploadLimiter     *ratelimit.Limiter
)

// Setup wires the controller dependencies once at boot. Database and cache
// must be initialized first.
func Setup() {
	db := database.GetDB()
	repos := repository.NewFactory(db).GetRepositories()

	ledgerService = ledger.NewServiceFromDB(db, cache.NewBalanceCache())

	paymentConfig = payments.ConfigFromEnv()
	checkoutClient = payments.NewClient(paymentConfig)
	webhookHandler = payments.NewWebhookHandler(ledgerService, paymentConfig)

	generationService = generation.NewService(
		ledgerService,
		generation.NewGeminiClientFromEnv(),
		repos.GeneratedImage,
		paymentConfig.CostPerImage,
	)

	// Uploads are limited per client address. A shared store keeps the
	// budget global when multiple instances run behind one LB.
	limit := env.GetEnvInt64("UPLOAD_RATE_LIMIT", 10)
	if env.GetEnv("UPLOAD_RATE_LIMIT_STORE", "redis") == "memory" {
		uploadLimiter = ratelimit.New(ratelimit.NewMemoryStore(), limit, time.Minute)
	} else {
		uploadLimiter = ratelimit.New(ratelimit.NewRedisStore(cache.GetClient(), "ratelimit:upload:"), limit, time.Minute)
	}

	client, err := blobstore.NewClientFromEnv()
	if err != nil {
		fiberlog.Warnf("[Setup] blob storage unavailable, uploads disabled: %v", err)
	} else {
		blobClient = client
	}
}
