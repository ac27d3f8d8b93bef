package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	cancelAppointmentHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/cancel_appointment"
	completeAppointmentHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/complete_appointment"
	deleteShopConfigHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/delete_shop_config"
	deleteStaffHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/delete_staff"
	getAppointmentHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/get_available_slots"
	getClientAppointmentsHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/get_client_appointments"
	getShopConfigHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/get_shop_config"
	getShopConfigsHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/get_shop_configs"
	getStaffAgendaHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/get_staff_agenda"
	getStaffAppointmentsHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/get_staff_appointments"
	proposeAppointmentHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/propose_appointment"
	updateShopConfigHandler "github.com/m04kA/SMC-BarberBooking/internal/api/handlers/update_shop_config"
	"github.com/m04kA/SMC-BarberBooking/internal/api/middleware"
	"github.com/m04kA/SMC-BarberBooking/internal/config"
	"github.com/m04kA/SMC-BarberBooking/internal/infra/outbox"
	userServiceClient "github.com/m04kA/SMC-BarberBooking/internal/integrations/userservice"
	agendaService "github.com/m04kA/SMC-BarberBooking/internal/service/agenda"
	appointmentsService "github.com/m04kA/SMC-BarberBooking/internal/service/appointments"
	configService "github.com/m04kA/SMC-BarberBooking/internal/service/config"
	staffService "github.com/m04kA/SMC-BarberBooking/internal/service/staff"
	getAvailableSlotsUC "github.com/m04kA/SMC-BarberBooking/internal/usecase/get_available_slots"
	proposeAppointmentUC "github.com/m04kA/SMC-BarberBooking/internal/usecase/propose_appointment"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
	"github.com/m04kA/SMC-BarberBooking/pkg/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Запустить HTTP сервер и публикацию событий",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return serve(cmd.Context(), cfg)
	},
}

func serve(ctx context.Context, cfg *config.Config) error {
	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Close()

	log.Info("Starting SMC-BarberBooking...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Scheduling.Location()
	if err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	store, err := openStorage(ctx, cfg, metricsCollector, log)
	if err != nil {
		return err
	}
	defer store.close()

	// Инициализируем интеграционных клиентов
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		userServiceClient.BreakerConfig{
			FailureThreshold: cfg.UserService.Breaker.FailureThreshold,
			OpenTimeout:      time.Duration(cfg.UserService.Breaker.OpenTimeout) * time.Second,
		},
		log,
	)
	log.Info("UserService client initialized (url=%s, timeout=%ds)", cfg.UserService.URL, cfg.UserService.Timeout)

	granularity := cfg.Scheduling.SlotGranularityMinutes

	// Инициализируем сервисы
	appointmentsSvc := appointmentsService.NewService(
		store.appointments, store.staff, store.shops, store.outbox, store.tx, metricsCollector, log,
	)
	configSvc := configService.NewService(store.configs, store.shops, store.staff, granularity, log)
	staffSvc := staffService.NewService(store.staff, store.shops, store.appointments, store.tx, log)
	agendaSvc := agendaService.NewService(store.appointments, store.staff, store.services, location, log)

	// Инициализируем use cases
	proposeAppointmentUseCase := proposeAppointmentUC.NewUseCase(
		store.appointments,
		store.staff,
		store.services,
		store.configs,
		store.outbox,
		userClient,
		store.tx,
		metricsCollector,
		location,
		granularity,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		store.appointments,
		store.staff,
		store.services,
		store.configs,
		location,
		granularity,
		log,
	)

	// Инициализируем handlers
	proposeAppointment := proposeAppointmentHandler.NewHandler(proposeAppointmentUseCase, location, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	completeAppointment := completeAppointmentHandler.NewHandler(appointmentsSvc, log)
	getClientAppointments := getClientAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getStaffAppointments := getStaffAppointmentsHandler.NewHandler(appointmentsSvc, location, log)
	getStaffAgenda := getStaffAgendaHandler.NewHandler(agendaSvc, location, log)
	deleteStaff := deleteStaffHandler.NewHandler(staffSvc, log)
	getShopConfig := getShopConfigHandler.NewHandler(configSvc, log)
	getShopConfigs := getShopConfigsHandler.NewHandler(configSvc, log)
	updateShopConfig := updateShopConfigHandler.NewHandler(configSvc, log)
	deleteShopConfig := deleteShopConfigHandler.NewHandler(configSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Rate limiting через Redis (если задан адрес)
	var limit mux.MiddlewareFunc
	if cfg.RateLimit.Enabled && cfg.Redis.Addr != "" {
		trusted, err := middleware.ParseTrustedProxies(cfg.RateLimit.TrustedProxies)
		if err != nil {
			return fmt.Errorf("invalid ratelimit.trusted_proxies: %w", err)
		}

		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		limit = middleware.RateLimit(
			middleware.NewRedisCounter(rdb),
			middleware.RateLimitConfig{
				Limit:          cfg.RateLimit.Limit,
				Window:         time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
				Prefix:         cfg.Metrics.ServiceName,
				TrustedProxies: trusted,
			},
			metricsCollector,
			log,
		)
		log.Info("Rate limiting enabled (redis=%s, limit=%d per %ds, trusted proxies=%d)",
			cfg.Redis.Addr, cfg.RateLimit.Limit, cfg.RateLimit.WindowSeconds, len(trusted))
	}

	registerRoutes(r, apiHandlers{
		proposeAppointment:    proposeAppointment.Handle,
		getAvailableSlots:     getAvailableSlots.Handle,
		getAppointment:        getAppointment.Handle,
		cancelAppointment:     cancelAppointment.Handle,
		completeAppointment:   completeAppointment.Handle,
		getClientAppointments: getClientAppointments.Handle,
		getStaffAppointments:  getStaffAppointments.Handle,
		getStaffAgenda:        getStaffAgenda.Handle,
		deleteStaff:           deleteStaff.Handle,
		getShopConfig:         getShopConfig.Handle,
		getShopConfigs:        getShopConfigs.Handle,
		updateShopConfig:      updateShopConfig.Handle,
		deleteShopConfig:      deleteShopConfig.Handle,
	}, limit)

	// Публикация событий outbox
	var wg sync.WaitGroup
	publisherCtx, stopPublisher := context.WithCancel(context.Background())
	defer stopPublisher()

	if cfg.Outbox.Enabled {
		var writer outbox.MessageWriter = outbox.DiscardWriter{Logger: log}
		if len(cfg.Outbox.Brokers) > 0 {
			writer = outbox.NewKafkaWriter(cfg.Outbox.Brokers)
		}

		publisher := outbox.NewPublisher(store.outbox, store.tx, writer, metricsCollector, log, outbox.Config{
			Brokers:      cfg.Outbox.Brokers,
			PollInterval: time.Duration(cfg.Outbox.PollIntervalMs) * time.Millisecond,
			BatchSize:    cfg.Outbox.BatchSize,
		})

		wg.Add(1)
		go func() {
			defer wg.Done()
			publisher.Run(publisherCtx)
		}()
		log.Info("Outbox publisher started (brokers=%v)", cfg.Outbox.Brokers)
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
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
		close(serverErr)
	}()

	// Ожидаем сигнал завершения или падение сервера
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			log.Error("Server failed: %v", err)
			return err
		}
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Publisher останавливается после HTTP сервера
	stopPublisher()
	wg.Wait()

	log.Info("Server stopped gracefully")
	return nil
}
