package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/app"
	"github.com/Freeeeeet/appointment_scheduler/internal/config"
	"github.com/Freeeeeet/appointment_scheduler/internal/controller"
	"github.com/Freeeeeet/appointment_scheduler/internal/notification"
	"github.com/Freeeeeet/appointment_scheduler/internal/repository"
	"github.com/Freeeeeet/appointment_scheduler/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("🚀 Starting appointment scheduler",
		zap.String("environment", cfg.Environment),
		zap.String("http_addr", cfg.HTTPAddr),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// База данных
	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	logger.Info("✅ Connected to database")

	// Миграции
	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	// Репозитории
	providerRepo := repository.NewProviderRepository(pool)
	ruleRepo := repository.NewAvailabilityRuleRepository(pool)
	timeOffRepo := repository.NewTimeOffRepository(pool)
	apptRepo := repository.NewAppointmentRepository(pool, logger)
	prefRepo := repository.NewPreferenceRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	// Уведомления: RabbitMQ, если сконфигурирован, иначе лог
	var notifier notification.Notifier
	if cfg.AMQPURL != "" {
		amqpNotifier, err := notification.NewAMQPNotifier(cfg.AMQPURL, cfg.NotifyExchange, logger)
		if err != nil {
			logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer amqpNotifier.Close()
		notifier = amqpNotifier
		logger.Info("✅ Connected to RabbitMQ", zap.String("exchange", cfg.NotifyExchange))
	} else {
		notifier = notification.NewLogNotifier(logger)
		logger.Info("⚠️  AMQP_URL not set, notifications go to log only")
	}

	// Сервисы
	step := time.Duration(cfg.SlotStepMinutes) * time.Minute
	availabilityService := service.NewAvailabilityService(providerRepo, ruleRepo, timeOffRepo, apptRepo, prefRepo, step, logger)
	bookingService := service.NewBookingService(apptRepo, notifier, logger)
	providerService := service.NewProviderService(providerRepo, ruleRepo, timeOffRepo, apptRepo, notifier, logger)
	userService := service.NewUserService(userRepo, logger)

	// Фоновое закрытие прошедших записей
	sweeper := app.NewSweeper(apptRepo, time.Hour, logger)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	// HTTP
	router := controller.NewRouter(availabilityService, bookingService, providerService, userService, logger)
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		logger.Info("✅ HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}

	logger.Info("👋 Scheduler stopped")
}
