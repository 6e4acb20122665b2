package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/lumeo-app/booking-service/internal/config"
	bookingRepo "github.com/lumeo-app/booking-service/internal/infra/storage/booking"
	eventRepo "github.com/lumeo-app/booking-service/internal/infra/storage/event"
	"github.com/lumeo-app/booking-service/internal/service/sweeps"
	"github.com/lumeo-app/booking-service/pkg/logger"
)

// realTimeProvider провайдер системного времени
type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time { return time.Now() }

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting booking-service sweeper...")

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	sweepSvc := sweeps.NewService(
		bookingRepo.NewRepository(db),
		eventRepo.NewRepository(db),
		realTimeProvider{},
		log,
	)

	runTimeout := time.Duration(cfg.Sweeper.RunTimeoutSecs) * time.Second

	runSweeps := func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		if err := sweepSvc.AutoCompleteFinished(ctx); err != nil {
			log.Error("Sweep AutoCompleteFinished failed: %v", err)
		}
		if err := sweepSvc.FlagImminent(ctx); err != nil {
			log.Error("Sweep FlagImminent failed: %v", err)
		}
	}

	// Первый проход сразу при старте, дальше по расписанию
	runSweeps()

	c := cron.New()
	spec := fmt.Sprintf("@every %dm", cfg.Sweeper.IntervalMinutes)
	if _, err := c.AddFunc(spec, runSweeps); err != nil {
		log.Fatal("Failed to schedule sweeps: %v", err)
	}
	c.Start()
	log.Info("Sweeper scheduled (%s, run timeout %ds)", spec, cfg.Sweeper.RunTimeoutSecs)

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down sweeper...")

	// Дожидаемся завершения текущего прохода
	<-c.Stop().Done()

	log.Info("Sweeper stopped gracefully")
}
