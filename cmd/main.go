package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/YelzhanWeb/orderdesk/internal/adapter/logger"
	"github.com/YelzhanWeb/orderdesk/internal/adapter/postgres"
	"github.com/YelzhanWeb/orderdesk/internal/adapter/rabbitmq"
	"github.com/YelzhanWeb/orderdesk/internal/app/analytics"
	"github.com/YelzhanWeb/orderdesk/internal/app/cacheaside"
	"github.com/YelzhanWeb/orderdesk/internal/app/customer"
	"github.com/YelzhanWeb/orderdesk/internal/app/delivery"
	"github.com/YelzhanWeb/orderdesk/internal/app/order"
	"github.com/YelzhanWeb/orderdesk/internal/app/product"
	"github.com/YelzhanWeb/orderdesk/internal/config"
	"github.com/YelzhanWeb/orderdesk/internal/domain"
	"github.com/YelzhanWeb/orderdesk/internal/interfaces"

	amqpAdapter "github.com/YelzhanWeb/orderdesk/internal/adapter/amqp"
	httpAdapter "github.com/YelzhanWeb/orderdesk/internal/adapter/http"
	redisAdapter "github.com/YelzhanWeb/orderdesk/internal/adapter/redis"
)

func main() {
	// Parse command-line flags
	mode := flag.String("mode", "api", "Service mode: api, notification-subscriber, migrate")
	configPath := flag.String("config", "config.yaml", "Path to the yaml config file")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	prefetch := flag.Int("prefetch", 10, "RabbitMQ prefetch count")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	lgr := logger.New(*mode, logger.ParseLevel(cfg.Logging.Level))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "api":
		err = runAPI(ctx, cfg, lgr)
	case "notification-subscriber":
		err = runNotificationSubscriber(ctx, cfg, lgr, *prefetch)
	case "migrate":
		err = runMigrate(ctx, cfg, lgr)
	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}
	if err != nil {
		lgr.Error("service_failed", "Service stopped with error", "runtime", nil, err)
		os.Exit(1)
	}
}

func connectDB(ctx context.Context, cfg *config.Config, lgr logger.Logger) (postgres.DB, error) {
	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]any{
		"host": cfg.Database.Host,
		"db":   cfg.Database.Database,
	})
	return db, nil
}

func runMigrate(ctx context.Context, cfg *config.Config, lgr logger.Logger) error {
	db, err := connectDB(ctx, cfg, lgr)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}
	lgr.Info("migration_applied", "Database schema is up to date", "startup", nil)
	return nil
}

// cacheFor returns the Redis cache, or a no-op cache when Redis is
// disabled. The returned func releases the client.
func cacheFor(ctx context.Context, cfg *config.Config, lgr logger.Logger) (interfaces.Cache, func(), error) {
	if !cfg.Redis.Enabled {
		lgr.Info("cache_disabled", "Redis disabled, reading through to the database", "startup", nil)
		return redisAdapter.NopCache(), func() {}, nil
	}

	client, err := redisAdapter.Connect(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	lgr.Info("redis_connected", "Connected to Redis", "startup", map[string]any{"addr": cfg.Redis.Addr})
	return redisAdapter.NewCache(client, "orderdesk:", cfg.Redis.TTL), func() { _ = client.Close() }, nil
}

// publisherFor returns the RabbitMQ publisher, or a no-op publisher when
// RabbitMQ is disabled.
func publisherFor(cfg *config.Config, lgr logger.Logger) (interfaces.MessagePublisher, func(), error) {
	if !cfg.RabbitMQ.Enabled {
		lgr.Info("events_disabled", "RabbitMQ disabled, order events are not published", "startup", nil)
		return rabbitmq.NopPublisher(), func() {}, nil
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		return nil, nil, err
	}
	lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]any{"host": cfg.RabbitMQ.Host})
	return rabbitmq.NewPublisher(conn, cfg.RabbitMQ.Exchange), func() { _ = conn.Close() }, nil
}

func runAPI(ctx context.Context, cfg *config.Config, lgr logger.Logger) error {
	db, err := connectDB(ctx, cfg, lgr)
	if err != nil {
		return err
	}
	defer db.Close()

	cache, closeCache, err := cacheFor(ctx, cfg, lgr)
	if err != nil {
		return err
	}
	defer closeCache()

	publisher, closePublisher, err := publisherFor(cfg, lgr)
	if err != nil {
		return err
	}
	defer closePublisher()

	// Initialize repositories
	orderRepo := postgres.NewOrderRepository(db)
	productRepo := postgres.NewProductRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)
	templateRepo := postgres.NewDeliveryTemplateRepository(db)
	analyticsRepo := postgres.NewAnalyticsRepository(db)

	catalog := cacheaside.New[[]*domain.Product](cache, lgr)
	templates := cacheaside.New[[]*domain.PricingTemplate](cache, lgr)

	// Initialize services
	orderService := order.NewService(orderRepo, productRepo, customerRepo, templateRepo, catalog, publisher, lgr,
		order.Options{RejectNegativeTotal: !cfg.Orders.AllowNegativeTotal})
	productService := product.NewService(productRepo, catalog, lgr, cfg.Orders.LowStockThreshold)
	customerService := customer.NewService(customerRepo, lgr)
	deliveryService := delivery.NewService(templateRepo, templates, lgr)
	analyticsService := analytics.NewService(analyticsRepo, lgr, cfg.Orders.LowStockThreshold)

	router := httpAdapter.NewRouter(httpAdapter.Handlers{
		Orders:    httpAdapter.NewOrderHandler(orderService, lgr),
		Products:  httpAdapter.NewProductHandler(productService, lgr),
		Customers: httpAdapter.NewCustomerHandler(customerService, lgr),
		Delivery:  httpAdapter.NewDeliveryHandler(deliveryService, lgr),
		Analytics: httpAdapter.NewAnalyticsHandler(analyticsService, lgr),
	}, cfg.Server.TenantHeader, lgr, db.Ping)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	lgr.Info("service_started", fmt.Sprintf("Order API started on port %d", cfg.Server.Port), "startup", map[string]any{
		"port":          cfg.Server.Port,
		"tenant_header": cfg.Server.TenantHeader,
		"redis":         cfg.Redis.Enabled,
		"rabbitmq":      cfg.RabbitMQ.Enabled,
	})

	// Graceful shutdown
	go func() {
		<-ctx.Done()

		lgr.Info("shutdown_initiated", "Shutting down Order API", "shutdown", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runNotificationSubscriber(ctx context.Context, cfg *config.Config, lgr logger.Logger, prefetch int) error {
	if !cfg.RabbitMQ.Enabled {
		return errors.New("notification-subscriber requires rabbitmq.enabled")
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		return err
	}
	defer conn.Close()

	consumer := rabbitmq.NewConsumer(conn, cfg.RabbitMQ.Exchange, prefetch, lgr)
	notificationHandler := amqpAdapter.NewNotificationHandler(lgr)

	lgr.Info("service_started", "Notification Subscriber started", "startup", map[string]any{"prefetch": prefetch})

	err = consumer.ConsumeOrderEvents(ctx, notificationHandler.HandleOrderEvent)
	lgr.Info("shutdown_initiated", "Shutting down Notification Subscriber", "shutdown", nil)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
