package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	cancelGroupHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/cancel_appointment_group"
	commitAppointmentHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/commit_appointment"
	getGroupHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/get_appointment_group"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/get_available_slots"
	getSettingsHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/get_settings"
	listAppointmentsHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/list_appointments"
	updateStatusHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/update_appointment_status"
	updateSettingsHandler "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/update_settings"
	"github.com/m04kA/SMC-SalonBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBookingService/internal/config"
	catalogCache "github.com/m04kA/SMC-SalonBookingService/internal/infra/cache/catalog"
	appointmentRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/catalog"
	professionalRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/professional"
	settingsRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/settings"
	stationRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/station"
	"github.com/m04kA/SMC-SalonBookingService/internal/integrations/clientservice"
	"github.com/m04kA/SMC-SalonBookingService/internal/scheduling/slots"
	appointmentsService "github.com/m04kA/SMC-SalonBookingService/internal/service/appointments"
	settingsService "github.com/m04kA/SMC-SalonBookingService/internal/service/settings"
	commitAppointmentUC "github.com/m04kA/SMC-SalonBookingService/internal/usecase/commit_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-SalonBookingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBookingService/pkg/logger"
	"github.com/m04kA/SMC-SalonBookingService/pkg/messaging"
	"github.com/m04kA/SMC-SalonBookingService/pkg/metrics"
	"github.com/m04kA/SMC-SalonBookingService/pkg/txmanager"
)

func runServer(cfg *config.Config) error {
	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Close()

	log.Info("Starting SMC-SalonBookingService...")

	// Инициализируем метрики (если включены). Nil-коллектор ничего не пишет
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Публикация событий
	var publisher messaging.Publisher = messaging.NopPublisher{}
	if cfg.Events.Enabled {
		redisPublisher, err := messaging.NewRedisPublisher(context.Background(), messaging.RedisConfig{
			URL:      cfg.Events.RedisURL,
			PoolSize: cfg.Events.PoolSize,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		publisher = redisPublisher
		log.Info("Event publishing enabled (redis)")
	}
	defer publisher.Close()

	// Интеграционные клиенты
	clientClient := clientservice.NewClient(
		cfg.ClientService.URL,
		time.Duration(cfg.ClientService.Timeout)*time.Second,
		log,
	)
	log.Info("Client directory client initialized (url=%s, timeout=%ds)", cfg.ClientService.URL, cfg.ClientService.Timeout)

	// Репозитории
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	professionalRepository := professionalRepo.NewRepository(wrappedDB)
	stationRepository := stationRepo.NewRepository(wrappedDB)
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	settingsRepository := settingsRepo.NewRepository(wrappedDB)

	// Поиск читает каталог через кэш, запись всегда идёт в БД
	cachedCatalog := catalogCache.New(catalogRepository, catalogCache.Config{
		TTL:             time.Duration(cfg.Cache.CatalogTTL) * time.Second,
		CleanupInterval: time.Duration(cfg.Cache.CleanupInterval) * time.Second,
	})

	engine := slots.NewEngine(slots.Config{
		Workers:         cfg.Engine.Workers,
		MaxCombinations: cfg.Engine.MaxCombinations,
	})

	// Сервисы
	appointmentsSvc := appointmentsService.NewService(appointmentRepository, publisher, txMgr, log)
	settingsSvc := settingsService.NewService(settingsRepository, log)

	// Use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		cachedCatalog,
		professionalRepository,
		stationRepository,
		appointmentRepository,
		settingsRepository,
		engine,
		txMgr,
		metricsCollector,
		log,
		getAvailableSlotsUC.Config{SearchTimeout: cfg.Engine.SearchTimeout()},
	)
	commitAppointmentUseCase := commitAppointmentUC.NewUseCase(
		catalogRepository,
		professionalRepository,
		stationRepository,
		appointmentRepository,
		settingsRepository,
		clientClient,
		publisher,
		txMgr,
		metricsCollector,
		log,
	)

	// Handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	commitAppointment := commitAppointmentHandler.NewHandler(commitAppointmentUseCase, log)
	getGroup := getGroupHandler.NewHandler(appointmentsSvc, log)
	cancelGroup := cancelGroupHandler.NewHandler(appointmentsSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentsSvc, log)
	updateStatus := updateStatusHandler.NewHandler(appointmentsSvc, log)
	getSettings := getSettingsHandler.NewHandler(settingsSvc, log)
	updateSettings := updateSettingsHandler.NewHandler(settingsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth)

	// ============================================================
	// КЛИЕНТСКИЕ МАРШРУТЫ (мастер записи)
	// ============================================================

	var slotsHandler http.Handler = http.HandlerFunc(getAvailableSlots.Handle)
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  rate.Limit(cfg.RateLimit.RPS),
			Burst: cfg.RateLimit.Burst,
		})
		slotsHandler = limiter.Limit(slotsHandler)
	}
	api.Handle("/availability/slots", slotsHandler).Methods(http.MethodPost)
	api.HandleFunc("/appointments/commit", commitAppointment.Handle).Methods(http.MethodPost)
	api.HandleFunc("/appointment-groups/{groupId}", getGroup.Handle).Methods(http.MethodGet)
	api.HandleFunc("/settings", getSettings.Handle).Methods(http.MethodGet)

	// ============================================================
	// МАРШРУТЫ ПЕРСОНАЛА (требуют X-User-ID header)
	// ============================================================

	api.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	api.HandleFunc("/appointments/{appointmentId}/status", updateStatus.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/appointment-groups/{groupId}/cancel", cancelGroup.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/settings", updateSettings.Handle).Methods(http.MethodPut)

	cors := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(cfg.Server.AllowedOrigins),
		gorillaHandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "X-User-ID", "X-Request-ID"}),
	)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      cors(r),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Ожидаем сигнал завершения или падение сервера
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		close(stopMetricsCh)
		return fmt.Errorf("server failed: %w", err)
	}

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
