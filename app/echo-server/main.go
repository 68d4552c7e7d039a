package main

import (
	"context"
	"fmt"
	"log"
	"marketingCRM/app/echo-server/metrics"
	"marketingCRM/app/echo-server/router"
	"marketingCRM/business/analytics"
	"marketingCRM/business/campaign"
	"marketingCRM/business/customer"
	"marketingCRM/business/demo"
	"marketingCRM/business/segment"
	userService "marketingCRM/business/user"
	"marketingCRM/internal/middleware"
	amqpRepo "marketingCRM/internal/repository/amqp"
	kafkaRepo "marketingCRM/internal/repository/kafka"
	psqlRepo "marketingCRM/internal/repository/postgres"
	redisRepo "marketingCRM/internal/repository/redis"
	"marketingCRM/internal/rest"
	"marketingCRM/pkg/config"
	"marketingCRM/pkg/database"
	"marketingCRM/pkg/database/redis"
	"marketingCRM/pkg/logger"
	crmmetrics "marketingCRM/pkg/metrics"
	"marketingCRM/pkg/random"
	"marketingCRM/pkg/telemetry"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
)

// eventPublisher is what main owns of a broker: publishing and shutdown.
type eventPublisher interface {
	campaign.EventPublisher
	Close() error
}

func newEventPublisher(cfg *config.Config, client *goredis.Client) (eventPublisher, error) {
	switch cfg.Events.Broker {
	case "redis":
		return redisRepo.NewEventPublisher(client, cfg.Events.Channel), nil
	case "amqp":
		return amqpRepo.NewEventPublisher(cfg.Events.AMQPURL, cfg.Events.Channel)
	case "kafka":
		return kafkaRepo.NewEventPublisher(cfg.Events.KafkaServers, cfg.Events.Channel)
	default:
		return nil, nil
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Marketing CRM", "version", cfg.App.Version)

	shutdownTracing, err := telemetry.Setup(context.Background(), cfg.Telemetry)
	if err != nil {
		logger.Warn("Tracing disabled", err)
	}

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(cfg); err != nil {
			logger.Fatal("Failed to run migrations", err)
		}
	}

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	logger.Info("Database connected successfully")

	redisClient, err := redis.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", err)
	}
	defer redis.CloseRedisClient(redisClient)

	publisher, err := newEventPublisher(cfg, redisClient)
	if err != nil {
		logger.Fatal("Failed to connect to event broker", err, "broker", cfg.Events.Broker)
	}
	// a nil publisher disables events
	var events campaign.EventPublisher
	if publisher != nil {
		events = publisher
		defer publisher.Close()
	}
	logger.Info("Event broker ready", "broker", cfg.Events.Broker, "channel", cfg.Events.Channel)

	crmmetrics.Init()
	metrics.Init()

	rng := random.New(cfg.Simulation.Seed)

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	customerRepo := psqlRepo.NewCustomerRepository(db)
	segmentRepo := psqlRepo.NewSegmentRepository(db)
	campaignRepo := psqlRepo.NewCampaignRepository(db)
	sessionRepo := redisRepo.NewSessionRepository(redisClient)

	fixture, err := demo.LoadFixture()
	if err != nil {
		logger.Fatal("Failed to load demo fixture", err)
	}

	// Init service
	userService := userService.NewUserService(userRepo, sessionRepo, cfg.Session.Secret, cfg.Session.TTL)
	customerService := customer.NewCustomerService(customerRepo)
	segmentService := segment.NewSegmentService(segmentRepo, customerRepo)
	simulator := campaign.NewSimulator(rng, campaign.EmptyAudiencePolicy(cfg.Simulation.EmptyAudience))
	campaignService := campaign.NewCampaignService(campaignRepo, segmentService, segmentService, simulator, events)
	analyticsService := analytics.NewAnalyticsService(campaignRepo, customerRepo, segmentRepo)
	demoService := demo.NewDemoService(
		customerRepo,
		userService,
		segmentService,
		campaignService,
		rng,
		fixture,
		demo.Credentials{Username: cfg.Demo.Username, Password: cfg.Demo.Password},
		cfg.Simulation.CostPerSend,
	)

	// Init handler
	authHandler := rest.NewAuthHandler(userService, rest.CookieConfig{
		Name:   cfg.Session.CookieName,
		TTL:    cfg.Session.TTL,
		Secure: cfg.Session.Secure,
	})
	customerHandler := rest.NewCustomerHandler(customerService)
	segmentHandler := rest.NewSegmentHandler(segmentService)
	campaignHandler := rest.NewCampaignHandler(campaignService, cfg.Simulation.CostPerSend)
	analyticsHandler := rest.NewAnalyticsHandler(analyticsService)
	demoHandler := rest.NewDemoHandler(demoService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
	}))
	e.Use(metrics.Middleware())

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	authRequired := middleware.SessionAuth(userService, cfg.Session.CookieName)

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupAuthRoutes(api, authHandler, authRequired)
	router.SetupCustomerRoutes(api, customerHandler, authRequired)
	router.SetupSegmentRoutes(api, segmentHandler, authRequired)
	router.SetupCampaignRoutes(api, campaignHandler, authRequired)
	router.SetupAnalyticsRoutes(api, analyticsHandler, authRequired)
	router.SetupDemoRoutes(api, demoHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Error("Tracer shutdown error", err)
	}

	logger.Info("Server stopped")
}
