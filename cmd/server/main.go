package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/fleetdash/service-fleet/internal/application"
	"github.com/fleetdash/service-fleet/internal/config"
	fleetEvents "github.com/fleetdash/service-fleet/internal/events"
	"github.com/fleetdash/service-fleet/internal/handler"
	"github.com/fleetdash/service-fleet/internal/kafka"
	"github.com/fleetdash/service-fleet/internal/live"
	"github.com/fleetdash/service-fleet/internal/logger"
	"github.com/fleetdash/service-fleet/internal/metrics"
	"github.com/fleetdash/service-fleet/internal/middleware"
	"github.com/fleetdash/service-fleet/internal/repository"
	"github.com/fleetdash/service-fleet/pkg/osrm"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-fleet")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-fleet",
		zap.String("port", cfg.Port),
		zap.Float64("average_speed_kmh", cfg.AverageSpeedKmh),
	)

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.DBConfig.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if err := db.AutoMigrate(
		&repository.RouteModel{},
		&repository.StopModel{},
		&repository.BusModel{},
		&repository.ScheduleModel{},
		&repository.ScheduleStopModel{},
		&repository.StudentModel{},
	); err != nil {
		log.Fatal("failed to run auto-migration", zap.Error(err))
	}

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repositories
	routeRepo := repository.NewGormRouteRepository(db)
	busRepo := repository.NewGormBusRepository(db)
	scheduleRepo := repository.NewGormScheduleRepository(db)
	studentRepo := repository.NewGormStudentRepository(db)

	// Road network client
	roads := osrm.New(cfg.OSRMBaseURL)

	collector := metrics.NewCollector()

	// Initialize application services
	routeService := application.NewRouteService(
		routeRepo,
		roads,
		kafkaProducer,
		cfg.KafkaConfig.RouteEventsTopic,
		cfg.AverageSpeedKmh,
		collector,
		log,
	)
	busService := application.NewBusService(busRepo, log)
	scheduleService := application.NewScheduleService(
		scheduleRepo,
		routeRepo,
		busRepo,
		kafkaProducer,
		cfg.KafkaConfig.ScheduleEventsTopic,
		collector,
		log,
	)
	studentService := application.NewStudentService(studentRepo, log)
	statsService := application.NewStatsService(busRepo, routeRepo, scheduleRepo)

	// Live position feed
	store := live.NewStore(cfg.PositionStaleAfter)
	hub := live.NewHub(log)

	var mirror fleetEvents.PositionMirror
	if cfg.RedisConfig.Enabled {
		redisMirror, err := live.NewRedisMirror(
			cfg.RedisConfig.Addr,
			cfg.RedisConfig.Password,
			cfg.RedisConfig.DB,
			cfg.RedisConfig.TTL,
			log,
		)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = redisMirror.Close() }()
		mirror = redisMirror

		restoreCtx, cancelRestore := context.WithTimeout(context.Background(), 10*time.Second)
		if err := live.Restore(restoreCtx, store, redisMirror, log); err != nil {
			log.Warn("failed to restore live positions from redis", zap.Error(err))
		}
		cancelRestore()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.Run(ctx)

	locationConsumer := fleetEvents.NewLocationConsumer(
		cfg.KafkaConfig.Brokers,
		cfg.KafkaConfig.ConsumerGroup,
		cfg.KafkaConfig.LocationTopic,
		store,
		hub,
		mirror,
		collector,
		log,
	)
	defer func() { _ = locationConsumer.Close() }()

	go func() {
		log.Info("starting location consumer",
			zap.String("topic", cfg.KafkaConfig.LocationTopic),
		)
		if err := locationConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("location consumer error", zap.Error(err))
		}
	}()

	// Evict stale positions and refresh gauges periodically
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				store.Prune()
				collector.TrackedBuses.Set(float64(store.Len()))
				collector.ConnectedClients.Set(float64(hub.ClientCount()))
			}
		}
	}()

	// Metrics endpoint on its own listener
	metricsSrv := collector.Serve(cfg.MetricsAddr, log)

	// Initialize HTTP handlers
	routeHandler := handler.NewRouteHandler(routeService)
	busHandler := handler.NewBusHandler(busService)
	scheduleHandler := handler.NewScheduleHandler(scheduleService)
	studentHandler := handler.NewStudentHandler(studentService)
	statsHandler := handler.NewStatsHandler(statsService)
	liveHandler := handler.NewLiveHandler(hub, store, log)

	// Setup Gin router
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())

	// Register health check routes
	healthHandler := handler.NewHealthHandler(db, "service-fleet")
	healthHandler.RegisterRoutes(router)

	// Register routes
	routeHandler.RegisterRoutes(&router.RouterGroup)
	busHandler.RegisterRoutes(&router.RouterGroup)
	scheduleHandler.RegisterRoutes(&router.RouterGroup)
	studentHandler.RegisterRoutes(&router.RouterGroup)
	statsHandler.RegisterRoutes(&router.RouterGroup)
	liveHandler.RegisterRoutes(router)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-fleet...")

	// Cancel the consumer and hub contexts
	cancel()

	// Shutdown HTTP servers with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("metrics server forced shutdown", zap.Error(err))
	}

	log.Info("service-fleet stopped")
}
