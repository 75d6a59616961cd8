package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/prismify-app/prismify/app/repository"
	"github.com/prismify-app/prismify/internal/pkg/aisdk"
	"github.com/prismify-app/prismify/internal/pkg/cache"
	"github.com/prismify-app/prismify/internal/pkg/database"
	"github.com/prismify-app/prismify/internal/pkg/env"
	"github.com/prismify-app/prismify/internal/pkg/mail"
	"github.com/prismify-app/prismify/internal/pkg/metrics/counter"
	"github.com/prismify-app/prismify/internal/pkg/payments"
	"github.com/prismify-app/prismify/internal/pkg/router"
	"github.com/prismify-app/prismify/internal/pkg/storage"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	repository.InitializeFactory(database.GetDB())
	cache.SetupCache()

	app := fiber.New(fiber.Config{
		BodyLimit: 52428800, // 50 MiB, inline image payloads can be large
	})
	app.Use(recover.New(), logger.New())

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: "./public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app, buildDeps())

	startCounterFlusher()

	return app
}

// buildDeps constructs every external client once and hands them to the
// router. Controllers never build clients themselves.
func buildDeps() router.Deps {
	aiClient, err := aisdk.NewReplicateClient(env.GetEnv("REPLICATE_API_TOKEN", ""))
	if err != nil {
		log.Fatalf("failed to initialize inference client: %v", err)
	}

	var uploader storage.Uploader
	storageCfg, err := storage.LoadConfig()
	if err != nil {
		log.Fatalf("invalid storage configuration: %v", err)
	}
	if storageCfg.IsEnabled() {
		client, err := storage.NewClient(storageCfg)
		if err != nil {
			log.Fatalf("failed to initialize object storage: %v", err)
		}
		uploader = client
	} else {
		fiberlog.Warn("S3_STORAGE_ENABLED is false, generation results cannot be stored")
		uploader = storage.NewDisabledUploader()
	}

	pricing, err := payments.LoadPricing(env.GetEnv("PRICING_DIR", "./config/pricing"))
	if err != nil {
		log.Fatalf("failed to load pricing tables: %v", err)
	}

	repos := repository.GetGlobalRepositories()
	backend := payments.NewAPIBackend(env.GetEnv("STRIPE_SECRET_KEY", ""))
	checkout := payments.NewCheckoutService(backend, repos.Product, repos.Order, pricing,
		env.GetEnv("PAYMENT_SUCCESS_URL", "http://localhost:4000/pay/success"),
		env.GetEnv("PAYMENT_CANCEL_URL", "http://localhost:4000/pay/cancel"))
	webhook := payments.NewWebhookService(backend, repos, mail.NewSMTPSender(),
		env.GetEnv("STRIPE_WEBHOOK_SECRET", ""))

	return router.Deps{
		AIClient: aiClient,
		Uploader: uploader,
		Fetcher:  aisdk.HTTPFetcher(nil),
		Checkout: checkout,
		Webhook:  webhook,
	}
}

// startCounterFlusher periodically drains the Redis usage counters into the
// model_stats table.
func startCounterFlusher() {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if err := counter.FlushAll(repository.GetGlobalRepositories().ModelStat); err != nil {
				fiberlog.Errorf("failed to flush usage counters: %v", err)
			}
		}
	}()
}
