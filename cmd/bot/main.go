package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xaenox/flatprice-bot/internal/bot"
	"github.com/xaenox/flatprice-bot/internal/catalog"
	"github.com/xaenox/flatprice-bot/internal/dialog"
	"github.com/xaenox/flatprice-bot/internal/httpserver"
	"github.com/xaenox/flatprice-bot/internal/pricing"
	"github.com/xaenox/flatprice-bot/internal/storage"
	"github.com/xaenox/flatprice-bot/pkg/config"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		zap.NewExample().Fatal("Failed to load config", zap.Error(err), zap.String("path", *configPath))
	}

	// Initialize logger
	logger, _ := zap.NewProduction()
	if cfg.Log.Development {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The model must be usable before any user is served.
	art, err := pricing.LoadArtifact(cfg.Model.ArtifactPath)
	if err != nil {
		logger.Fatal("Failed to load model artifact", zap.Error(err), zap.String("path", cfg.Model.ArtifactPath))
	}
	logger.Info("Model artifact loaded",
		zap.String("version", art.Version),
		zap.Int("features", len(art.FeaturesOrder)))

	estimator := pricing.NewEstimator(art, pricing.Options{
		KeyRate:           cfg.Model.KeyRate,
		DeviationFraction: cfg.Model.DeviationFraction,
	}, logger)

	store := openStorage(cfg.Database, logger)
	defer store.Close()

	districts, types := catalog.Districts(), catalog.ApartmentTypes()
	machine := dialog.NewMachine(districts, types, estimator, logger)
	conversations := dialog.NewConversations(machine, store, art.Version, logger)

	b, err := bot.New(cfg.Telegram.Token, cfg.Telegram.Debug, conversations, logger)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	gin.SetMode(cfg.Server.GinMode)
	server := httpserver.New(cfg.Server.Port, estimator, districts, types, logger)

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Telegram.WebhookURL != "" {
		server.HandleWebhook(cfg.Telegram.WebhookSecret, b.WebhookHandler())
		if err := b.SetWebhook(cfg.Telegram.WebhookURL + "/telegram/" + cfg.Telegram.WebhookSecret); err != nil {
			logger.Fatal("Failed to set webhook", zap.Error(err))
		}
	} else {
		g.Go(func() error { return b.Start(ctx) })
	}

	g.Go(func() error { return server.Run(ctx) })

	if cfg.KeepAlive.Enabled && cfg.KeepAlive.URL != "" {
		keepAlive := httpserver.NewKeepAlive(cfg.KeepAlive.URL, cfg.KeepAlive.Interval, logger)
		g.Go(func() error {
			keepAlive.Run(ctx)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Shutting down on error", zap.Error(err))
		return
	}
	logger.Info("Shut down")
}

func openStorage(cfg config.DatabaseConfig, logger *zap.Logger) storage.Storage {
	switch cfg.Driver {
	case config.DriverPostgres:
		logger.Info("Using PostgreSQL storage", zap.String("host", cfg.Host))
		store, err := storage.NewPostgresStorage(storage.DatabaseConfig{
			Host:     cfg.Host,
			Port:     cfg.Port,
			User:     cfg.User,
			Password: cfg.Password,
			DBName:   cfg.DBName,
			SSLMode:  cfg.SSLMode,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
		return store
	case config.DriverSQLite:
		logger.Info("Using SQLite storage", zap.String("path", cfg.SQLitePath))
		store, err := storage.NewSQLiteStorage(cfg.SQLitePath, logger)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
		return store
	default:
		logger.Info("Using in-memory storage")
		return storage.NewMemoryStorage()
	}
}
