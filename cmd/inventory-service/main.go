package main

import (
	"context"
	"os"
	"time"

	"orderflow/internal/pkg/bootstrap"
	"orderflow/internal/pkg/config"
	"orderflow/internal/pkg/logger"
	"orderflow/internal/pkg/redis"
	"orderflow/internal/pkg/zookeeper"
	"orderflow/internal/service/inventory/application"
	"orderflow/internal/service/inventory/domain"
	"orderflow/internal/service/inventory/infrastructure"
	"orderflow/internal/service/inventory/interfaces"

	"go.opentelemetry.io/otel"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const serviceName = "inventory-service"

// main is the composition root: build the store, cache and locker from
// config, assemble the service, then hand routing to bootstrap.
func main() {
	logger.Init(serviceName)

	cfg, err := config.Load(getEnv("CONFIG_PATH", "configs/config.yaml"))
	if err != nil {
		logger.L().Fatal().Err(err).Msg("failed to load config")
	}

	repo := buildProductRepository(cfg)
	cache := buildStockCache(cfg)
	locker := buildProductLocker(cfg)

	service := application.NewInventoryService(repo, locker, cache, otel.Tracer(serviceName))
	seedProducts(cfg, repo)
	handler := interfaces.NewInventoryHandler(service)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        cfg.App.Inventory.Port,
		Config:      cfg,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			handler.RegisterRoutes(appCtx.Mux)
		},
	})
}

func buildProductRepository(cfg *config.Config) domain.ProductRepository {
	if cfg.Infra.MySQL.DSN == "" {
		logger.L().Warn().Msg("no MySQL DSN configured, using in-memory product store")
		return infrastructure.NewMemoryProductRepository()
	}

	db, err := gorm.Open(mysql.Open(cfg.Infra.MySQL.DSN), &gorm.Config{})
	if err != nil {
		logger.L().Fatal().Err(err).Msg("failed to connect to MySQL")
	}
	repo := infrastructure.NewGormProductRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		logger.L().Fatal().Err(err).Msg("failed to migrate products table")
	}
	return repo
}

func buildStockCache(cfg *config.Config) application.StockCache {
	if cfg.Infra.Redis.Addrs == "" {
		return nil
	}
	client, err := redis.NewClient(cfg.Infra.Redis.Addrs)
	if err != nil {
		logger.L().Warn().Err(err).Msg("redis unreachable, running without stock cache")
		return nil
	}
	return infrastructure.NewRedisStockCache(client)
}

func buildProductLocker(cfg *config.Config) application.ProductLocker {
	if cfg.Infra.Zookeeper.Servers == "" {
		return nil // service falls back to the local keyed mutex
	}
	conn, err := zookeeper.Connect(cfg.Infra.Zookeeper.Servers, 5*time.Second)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("failed to connect to zookeeper")
	}
	logger.L().Info().Msg("reservations guarded by zookeeper distributed locks")
	return infrastructure.NewZkProductLocker(conn)
}

// seedProducts upserts the configured demo products so a fresh install
// has stock to sell.
func seedProducts(cfg *config.Config, repo domain.ProductRepository) {
	ctx := context.Background()
	for _, seed := range cfg.App.Inventory.SeedProducts {
		existing, err := repo.FindByName(ctx, seed.Name)
		if err != nil {
			logger.L().Error().Err(err).Str("product", seed.Name).Msg("seed lookup failed")
			continue
		}
		if existing != nil {
			continue
		}
		if err := repo.Save(ctx, &domain.Product{Name: seed.Name, StockQuantity: seed.Quantity}); err != nil {
			logger.L().Error().Err(err).Str("product", seed.Name).Msg("seed insert failed")
		}
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
