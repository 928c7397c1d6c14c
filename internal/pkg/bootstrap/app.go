package bootstrap

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"orderflow/internal/pkg/config"
	"orderflow/internal/pkg/logger"
	"orderflow/internal/pkg/nacos"
	"orderflow/internal/pkg/tracing"
	"orderflow/internal/pkg/utils"
)

var currentConfig *config.Config

// GetCurrentConfig returns the config loaded by StartService.
func GetCurrentConfig() *config.Config {
	return currentConfig
}

// AppCtx is handed to each service's route registration callback.
type AppCtx struct {
	Mux    *http.ServeMux
	Nacos  *nacos.Client // nil when Nacos is not configured
	Config *config.Config
}

// AppInfo carries the service-specific pieces of a startup.
type AppInfo struct {
	ServiceName string
	Port        int
	// Config may be pre-loaded by the cmd; when nil StartService loads it
	// from CONFIG_PATH.
	Config           *config.Config
	RegisterHandlers func(appCtx AppCtx)
}

// StartService runs the common startup and graceful-shutdown sequence:
// config, logging, tracing, optional Nacos registration, HTTP server.
func StartService(info AppInfo) {
	logger.Init(info.ServiceName)

	cfg := info.Config
	if cfg == nil {
		var err error
		cfg, err = config.Load(getEnv("CONFIG_PATH", "configs/config.yaml"))
		if err != nil {
			logger.L().Fatal().Err(err).Msg("failed to load config")
		}
	}
	currentConfig = cfg

	tp, err := tracing.InitTracerProvider(info.ServiceName, cfg.Infra.Jaeger.Endpoint)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("failed to initialize tracer provider")
	}

	var namingClient *nacos.Client
	var ip string
	if cfg.Infra.Nacos.ServerAddrs != "" {
		namingClient, err = nacos.NewClient(cfg.Infra.Nacos.ServerAddrs, cfg.Infra.Nacos.Namespace, cfg.Infra.Nacos.Group)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("failed to initialize nacos client")
		}

		ip, err = utils.GetOutboundIP()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("failed to get outbound IP address")
		}

		if err := namingClient.RegisterServiceInstance(info.ServiceName, ip, info.Port); err != nil {
			logger.L().Fatal().Err(err).Msg("failed to register service with nacos")
		}
	}

	mux := http.NewServeMux()
	if info.RegisterHandlers != nil {
		info.RegisterHandlers(AppCtx{Mux: mux, Nacos: namingClient, Config: cfg})
	}
	server := &http.Server{Addr: ":" + strconv.Itoa(info.Port), Handler: mux}
	go func() {
		logger.L().Info().Msgf("%s listening on :%d", info.ServiceName, info.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.L().Fatal().Err(err).Msgf("could not listen on %s", server.Addr)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.L().Info().Msgf("shutting down service %s", info.ServiceName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Teardown runs last-in-first-out: deregister, flush traces, stop HTTP.
	if namingClient != nil {
		if err := namingClient.DeregisterServiceInstance(info.ServiceName, ip, info.Port); err != nil {
			logger.L().Error().Err(err).Msg("error deregistering from nacos")
		}
	}

	if err := tp.Shutdown(ctx); err != nil {
		logger.L().Error().Err(err).Msg("error shutting down tracer provider")
	}

	if err := server.Shutdown(ctx); err != nil {
		logger.L().Error().Err(err).Msg("error shutting down http server")
	}

	logger.L().Info().Msgf("service %s gracefully shut down", info.ServiceName)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
