package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"orderflow/internal/pkg/config"
	"orderflow/internal/pkg/logger"
	"orderflow/internal/pkg/mq"
	"orderflow/internal/pkg/tracing"
	"orderflow/internal/service/order/domain"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	serviceName     = "notification-worker"
	consumerGroupID = "notification-worker-group"
)

// The worker tails the order outcome topic and notifies (here: logs) each
// terminal order status. It has no HTTP API beyond health and metrics.
func main() {
	logger.Init(serviceName)

	cfg, err := config.Load(getEnv("CONFIG_PATH", "configs/config.yaml"))
	if err != nil {
		logger.L().Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Infra.Kafka.Brokers == "" {
		logger.L().Fatal().Msg("KAFKA_BROKERS is required for the notification worker")
	}

	tp, err := tracing.InitTracerProvider(serviceName, cfg.Infra.Jaeger.Endpoint)
	if err != nil {
		logger.L().Fatal().Err(err).Msg("failed to initialize tracer provider")
	}
	defer tp.Shutdown(context.Background())

	reader := mq.NewKafkaReader(
		strings.Split(cfg.Infra.Kafka.Brokers, ","),
		cfg.Infra.Kafka.OrderEventsTopic,
		consumerGroupID,
	)
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		mux := http.NewServeMux()
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
		mux.Handle("/metrics", promhttp.Handler())
		server := &http.Server{Addr: ":8083", Handler: mux}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			server.Shutdown(shutdownCtx)
		}()
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		tracer := otel.Tracer(serviceName)
		logger.L().Info().Msgf("consuming order outcome events from %q", cfg.Infra.Kafka.OrderEventsTopic)
		for {
			msg, err := reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.L().Error().Err(err).Msg("could not read message, retrying")
				time.Sleep(5 * time.Second)
				continue
			}
			handleMessage(tracer, msg)
		}
	})

	if err := g.Wait(); err != nil {
		logger.L().Fatal().Err(err).Msg("notification worker stopped")
	}
	logger.L().Info().Msg("notification worker shut down")
}

func handleMessage(tracer trace.Tracer, msg kafka.Message) {
	carrier := mq.KafkaHeaderCarrier(msg.Headers)
	parentCtx := otel.GetTextMapPropagator().Extract(context.Background(), &carrier)
	ctx, span := tracer.Start(parentCtx, "notification-worker.HandleOrderOutcome", trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()

	var event domain.OrderOutcomeEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		span.RecordError(err)
		logger.Ctx(ctx).Error().Err(err).Msg("failed to unmarshal order outcome event")
		return
	}

	span.SetAttributes(
		attribute.String("order.status", string(event.Status)),
		attribute.String("order.product", event.Product),
	)
	logger.Ctx(ctx).Info().
		Uint("order_id", event.OrderID).
		Str("product", event.Product).
		Int("quantity", event.Quantity).
		Str("status", string(event.Status)).
		Str("reason", event.Reason).
		Msg("order notification")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
