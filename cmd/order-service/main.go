package main

import (
	"os"
	"strings"

	"orderflow/internal/pkg/bootstrap"
	"orderflow/internal/pkg/config"
	"orderflow/internal/pkg/httpclient"
	"orderflow/internal/pkg/logger"
	"orderflow/internal/pkg/mq"
	"orderflow/internal/service/order/application"
	"orderflow/internal/service/order/domain"
	"orderflow/internal/service/order/domain/port"
	"orderflow/internal/service/order/infrastructure"
	"orderflow/internal/service/order/infrastructure/adapter"
	"orderflow/internal/service/order/interfaces"

	"go.opentelemetry.io/otel"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const serviceName = "order-service"

// main is the composition root: store, event publisher and the inventory
// gateway are assembled here, then routing is handed to bootstrap. The
// inventory address comes from Nacos when configured, otherwise from the
// static config fallback.
func main() {
	logger.Init(serviceName)

	cfg, err := config.Load(getEnv("CONFIG_PATH", "configs/config.yaml"))
	if err != nil {
		logger.L().Fatal().Err(err).Msg("failed to load config")
	}

	repo := buildOrderRepository(cfg)

	var publisher port.OrderEventPublisher
	if cfg.Infra.Kafka.Brokers != "" {
		writer := mq.NewKafkaWriter(strings.Split(cfg.Infra.Kafka.Brokers, ","), cfg.Infra.Kafka.OrderEventsTopic)
		defer writer.Close()
		publisher = adapter.NewOrderEventKafkaAdapter(writer)
	} else {
		logger.L().Warn().Msg("no Kafka brokers configured, order outcome events disabled")
	}

	tracer := otel.Tracer(serviceName)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        cfg.App.Order.Port,
		Config:      cfg,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			var resolver httpclient.Resolver = httpclient.StaticResolver{
				"inventory-service": cfg.App.Order.InventoryAddr,
			}
			if appCtx.Nacos != nil {
				resolver = appCtx.Nacos
			}

			client := httpclient.NewClient(tracer, resolver)
			gateway := adapter.NewInventoryHTTPAdapter(client)
			service := application.NewOrderApplicationService(repo, gateway, publisher, tracer)
			handler := interfaces.NewOrderHandler(service)
			handler.RegisterRoutes(appCtx.Mux)
		},
	})
}

func buildOrderRepository(cfg *config.Config) domain.OrderRepository {
	if cfg.Infra.MySQL.DSN == "" {
		logger.L().Warn().Msg("no MySQL DSN configured, using in-memory order store")
		return infrastructure.NewMemoryOrderRepository()
	}

	db, err := gorm.Open(mysql.Open(cfg.Infra.MySQL.DSN), &gorm.Config{})
	if err != nil {
		logger.L().Fatal().Err(err).Msg("failed to connect to MySQL")
	}
	repo := infrastructure.NewGormOrderRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		logger.L().Fatal().Err(err).Msg("failed to migrate orders table")
	}
	return repo
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
