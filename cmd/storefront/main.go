// cmd/storefront/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/wouhouch/hub/internal/config"
	"github.com/wouhouch/hub/internal/domain/settings"
	"github.com/wouhouch/hub/internal/infrastructure/database/postgres"
	"github.com/wouhouch/hub/internal/infrastructure/database/redis"
	"github.com/wouhouch/hub/internal/infrastructure/localstore"
	"github.com/wouhouch/hub/internal/interfaces/http"
	"github.com/wouhouch/hub/internal/pkg/apiclient"
	"github.com/wouhouch/hub/internal/pkg/auth"
	"github.com/wouhouch/hub/internal/pkg/logger"
	"github.com/wouhouch/hub/internal/pkg/metrics"
	"github.com/wouhouch/hub/internal/pkg/pdf"
)

// purgeInterval is how often stale postgres storage rows are removed
const purgeInterval = time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	// The backend reads prices as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	log := logger.New(cfg)
	log.WithFields(logrus.Fields{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("Starting storefront gateway")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := http.Options{
		Config:  cfg,
		Logger:  log,
		Metrics: metrics.New(),
		Checks:  map[string]http.HealthChecker{},
	}

	// Local storage backend
	switch cfg.Storage.Driver {
	case "redis":
		redisClient, err := redis.NewConnection(cfg, log)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		opts.Backend = localstore.NewRedisBackend(redisClient.GetClient(), cfg.Storage.TTL)
		opts.Redis = redisClient.GetClient()
		opts.Checks["redis"] = redisClient

	case "postgres":
		db, err := postgres.NewConnection(cfg, log)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		migration := postgres.NewMigration(db.GetDB(), log)
		if err := migration.RunAutoMigrations(); err != nil {
			log.Fatalf("Database migration failed: %v", err)
		}
		if err := migration.CreateIndexes(); err != nil {
			log.WithError(err).Warn("Index creation failed")
		}
		if cfg.Storage.TTL > 0 {
			go purgeStale(ctx, migration, cfg.Storage.TTL, log)
		}

		opts.Backend = localstore.NewPostgresBackend(db.GetDB())
		opts.Checks["database"] = db

	default:
		log.Warn("Using in-memory storage; sessions are lost on restart")
		opts.Backend = localstore.NewMemoryBackend()
	}

	opts.Client = apiclient.New(apiclient.Config{
		BaseURL:  cfg.API.BaseURL,
		Timeout:  cfg.API.Timeout,
		Logger:   log,
		Observer: opts.Metrics,
	})

	opts.Sealer, err = auth.NewSealer(cfg.Security.SealSecret)
	if err != nil {
		log.Fatalf("Failed to create sealer: %v", err)
	}

	// Site settings live in the shared namespace
	defaults, err := settings.LoadDefaults(cfg.Site.SettingsFile)
	if err != nil {
		log.Fatalf("Failed to load site settings: %v", err)
	}
	siteStorage, err := localstore.New(opts.Backend, localstore.SiteNamespace)
	if err != nil {
		log.Fatalf("Failed to open site storage: %v", err)
	}
	opts.Settings = settings.NewStore(ctx, siteStorage, defaults, log)

	if cfg.Site.WkhtmltopdfPath != "" {
		wkhtmltopdf.SetPath(cfg.Site.WkhtmltopdfPath)
	}
	site := opts.Settings.Get()
	opts.PDF = pdf.NewService(pdf.CompanyInfo{
		Name:     site.SiteName,
		Email:    site.ContactEmail,
		WhatsApp: site.WhatsAppNumber,
		Currency: cfg.Site.Currency,
	})

	server := http.NewServer(opts)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down gracefully")

	// Give server 30 seconds to shutdown gracefully
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	log.Info("Server shutdown completed")
}

func purgeStale(ctx context.Context, migration *postgres.Migration, maxAge time.Duration, log logrus.FieldLogger) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := migration.PurgeStale(maxAge); err != nil {
				log.WithError(err).Warn("Failed to purge stale storage")
			}
		}
	}
}
