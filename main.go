package main

import (
	"context"
	"errors"
	"fieldfuze-scheduler/controller"
	"fieldfuze-scheduler/dal"
	"fieldfuze-scheduler/middelware"
	"fieldfuze-scheduler/models"
	"fieldfuze-scheduler/repository"
	"fieldfuze-scheduler/services"
	"fieldfuze-scheduler/utils"
	"fieldfuze-scheduler/utils/logger"
	"fieldfuze-scheduler/worker"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

var config *models.Config

func Init() {
	var err error
	config, err = utils.GetConfig()
	if err != nil {
		log.Fatal(err)
	}
}

// @title FieldFuze Scheduler API
// @version 1.0
// @description Dispatch calendar for field-service appointments: calendar events,
// @description day schedules, drag and drop rescheduling and an iCalendar feed.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	Init()

	appLogger := logger.NewLogger(config.LogLevel, config.LogFormat)
	appLogger.Debugf("Config Loaded :: %s", utils.PrintPrettyJSON(config))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dalContainer, err := dal.NewDALContainer(config, appLogger)
	if err != nil {
		appLogger.Fatalf("Failed to initialize DynamoDB client: %v", err)
	}
	db := dalContainer.GetDatabaseClient()

	cache := services.NewNoopCalendarCache()
	if config.RedisAddr != "" {
		redisCache, err := services.NewRedisCalendarCache(ctx, config, appLogger)
		if err != nil {
			appLogger.Warnf("Calendar cache disabled: %v", err)
		} else {
			cache = redisCache
		}
	}
	defer cache.Close()

	publisher := services.NewNoopReschedulePublisher()
	if config.RabbitMQURL != "" {
		amqpPublisher, err := services.NewAMQPReschedulePublisher(config, appLogger)
		if err != nil {
			appLogger.Warnf("Reschedule notifications disabled: %v", err)
		} else {
			publisher = amqpPublisher
		}
	}
	defer publisher.Close()

	repos := repository.NewRepositoryContainer(db, config, appLogger)
	svc := services.NewService(repos, cache, publisher, appLogger, config)
	calendarService := svc.GetCalendarService()

	// Table bootstrap and board refresh
	bgWorker, err := worker.NewService(config, db, calendarService, appLogger)
	if err != nil {
		appLogger.Fatalf("Failed to create worker: %v", err)
	}
	if err := bgWorker.StartInBackground(); err != nil {
		appLogger.Fatalf("Failed to start worker: %v", err)
	}

	if config.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	logging := middelware.NewLoggingMiddleware(appLogger)
	r := gin.New()
	r.Use(
		logging.RequestID(),
		logging.StructuredLogger(),
		logging.Recovery(),
		middelware.NewCORSMiddleware(config).CORS(),
	)

	jwtManager := middelware.NewJWTManager(config, appLogger)
	c := controller.NewController(ctx, config, svc, jwtManager, bgWorker, appLogger)
	c.RegisterRoutes(r, config.BasePath)

	srv := &http.Server{
		Addr:              config.AppHost + ":" + config.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Infof("🚀 Starting server on %s:%s", config.AppHost, config.AppPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Errorf("Server shutdown failed: %v", err)
	}

	// Persist repositions still waiting on the debounce window
	calendarService.Flush()

	if err := bgWorker.Stop(); err != nil {
		appLogger.Errorf("Failed to stop worker: %v", err)
	}
}
