package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/lumeo-app/booking-service/internal/api/handlers/cancel_booking"
	cancelEventHandler "github.com/lumeo-app/booking-service/internal/api/handlers/cancel_event"
	createBookingHandler "github.com/lumeo-app/booking-service/internal/api/handlers/create_booking"
	createEventHandler "github.com/lumeo-app/booking-service/internal/api/handlers/create_event"
	deleteEventHandler "github.com/lumeo-app/booking-service/internal/api/handlers/delete_event"
	getAvailabilityHandler "github.com/lumeo-app/booking-service/internal/api/handlers/get_availability"
	getBookingHandler "github.com/lumeo-app/booking-service/internal/api/handlers/get_booking"
	getEventHandler "github.com/lumeo-app/booking-service/internal/api/handlers/get_event"
	getProviderBookingsHandler "github.com/lumeo-app/booking-service/internal/api/handlers/get_provider_bookings"
	getProviderEventsHandler "github.com/lumeo-app/booking-service/internal/api/handlers/get_provider_events"
	getUserBookingsHandler "github.com/lumeo-app/booking-service/internal/api/handlers/get_user_bookings"
	joinEventHandler "github.com/lumeo-app/booking-service/internal/api/handlers/join_event"
	startSessionHandler "github.com/lumeo-app/booking-service/internal/api/handlers/start_session"
	stopSessionHandler "github.com/lumeo-app/booking-service/internal/api/handlers/stop_session"
	updateBookingStatusHandler "github.com/lumeo-app/booking-service/internal/api/handlers/update_booking_status"
	"github.com/lumeo-app/booking-service/internal/api/middleware"
	"github.com/lumeo-app/booking-service/internal/config"
	"github.com/lumeo-app/booking-service/internal/infra/slotlock"
	bookingRepo "github.com/lumeo-app/booking-service/internal/infra/storage/booking"
	eventRepo "github.com/lumeo-app/booking-service/internal/infra/storage/event"
	settingsRepo "github.com/lumeo-app/booking-service/internal/infra/storage/settings"
	notifyServiceClient "github.com/lumeo-app/booking-service/internal/integrations/notifyservice"
	providerServiceClient "github.com/lumeo-app/booking-service/internal/integrations/providerservice"
	bookingsService "github.com/lumeo-app/booking-service/internal/service/bookings"
	eventsService "github.com/lumeo-app/booking-service/internal/service/events"
	createBookingUC "github.com/lumeo-app/booking-service/internal/usecase/create_booking"
	getAvailabilityUC "github.com/lumeo-app/booking-service/internal/usecase/get_availability"
	joinEventUC "github.com/lumeo-app/booking-service/internal/usecase/join_event"
	"github.com/lumeo-app/booking-service/pkg/dbmetrics"
	"github.com/lumeo-app/booking-service/pkg/logger"
	"github.com/lumeo-app/booking-service/pkg/metrics"
	"github.com/lumeo-app/booking-service/pkg/simpletxmanager"
	"github.com/lumeo-app/booking-service/pkg/txmanager"
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

	log.Info("Starting booking-service...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Подключаемся к Redis для слот-локов
	var slotLocker slotlock.Locker = slotlock.NoopLocker{}
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}

		slotLocker = slotlock.NewRedisSlotLocker(redisClient, time.Duration(cfg.Redis.LockTTLSecs)*time.Second)
		log.Info("Redis slot locker enabled (addr=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.LockTTLSecs)
	} else {
		log.Warn("Redis is not configured, slot locking relies on serializable transactions only")
	}

	// Инициализируем интеграционных клиентов
	providerClient := providerServiceClient.NewClient(
		cfg.ProviderService.URL,
		time.Duration(cfg.ProviderService.Timeout)*time.Second,
		log,
	)
	notifyClient := notifyServiceClient.NewClient(
		cfg.NotifyService.URL,
		time.Duration(cfg.NotifyService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (ProviderService=%s timeout=%ds, NotifyService=%s timeout=%ds)",
		cfg.ProviderService.URL, cfg.ProviderService.Timeout, cfg.NotifyService.URL, cfg.NotifyService.Timeout)

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		eventRepository    *eventRepo.Repository
		settingsRepository *settingsRepo.Repository
	)

	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		eventRepository = eventRepo.NewRepository(wrappedDB)
		settingsRepository = settingsRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		eventRepository = eventRepo.NewRepository(db)
		settingsRepository = settingsRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		eventRepository,
		notifyClient,
		txMgr,
		log,
	)
	eventSvc := eventsService.NewService(
		eventRepository,
		bookingRepository,
		settingsRepository,
		providerClient,
		notifyClient,
		txMgr,
		realTimeProvider{},
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		eventRepository,
		settingsRepository,
		providerClient,
		notifyClient,
		txMgr,
		slotLocker,
		log,
	)
	joinEventUseCase := joinEventUC.NewUseCase(
		bookingRepository,
		eventRepository,
		settingsRepository,
		notifyClient,
		txMgr,
		log,
	)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		bookingRepository,
		eventRepository,
		settingsRepository,
		providerClient,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	joinEvent := joinEventHandler.NewHandler(joinEventUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getProviderBookings := getProviderBookingsHandler.NewHandler(bookingSvc, log)
	startSession := startSessionHandler.NewHandler(bookingSvc, log)
	stopSession := stopSessionHandler.NewHandler(bookingSvc, log)
	createEvent := createEventHandler.NewHandler(eventSvc, log)
	getEvent := getEventHandler.NewHandler(eventSvc, log)
	getProviderEvents := getProviderEventsHandler.NewHandler(eventSvc, log)
	cancelEvent := cancelEventHandler.NewHandler(eventSvc, log)
	deleteEvent := deleteEventHandler.NewHandler(eventSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Календарь доступности провайдера
	api.HandleFunc("/providers/{providerId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Карточка события
	api.HandleFunc("/events/{eventId}", getEvent.Handle).Methods(http.MethodGet)

	// События провайдера
	api.HandleFunc("/providers/{providerId}/events", getProviderEvents.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/session/start", startSession.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/session/stop", stopSession.Handle).Methods(http.MethodPost)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// Календарь провайдера
	protected.HandleFunc("/providers/{providerId}/bookings", getProviderBookings.Handle).Methods(http.MethodGet)

	// --- События ---
	protected.HandleFunc("/events", createEvent.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/events/{eventId}/bookings", joinEvent.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/events/{eventId}/cancel", cancelEvent.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/events/{eventId}", deleteEvent.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
