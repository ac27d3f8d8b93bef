package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-BarberBooking/internal/config"
	"github.com/m04kA/SMC-BarberBooking/internal/infra/outbox"
	appointmentRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/catalog"
	configRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/config"
	"github.com/m04kA/SMC-BarberBooking/internal/infra/storage/memory"
	outboxRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/outbox"
	shopRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/shop"
	staffRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/staff"
	agendaService "github.com/m04kA/SMC-BarberBooking/internal/service/agenda"
	appointmentsService "github.com/m04kA/SMC-BarberBooking/internal/service/appointments"
	configService "github.com/m04kA/SMC-BarberBooking/internal/service/config"
	staffService "github.com/m04kA/SMC-BarberBooking/internal/service/staff"
	getAvailableSlotsUC "github.com/m04kA/SMC-BarberBooking/internal/usecase/get_available_slots"
	proposeAppointmentUC "github.com/m04kA/SMC-BarberBooking/internal/usecase/propose_appointment"
	"github.com/m04kA/SMC-BarberBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
	"github.com/m04kA/SMC-BarberBooking/pkg/metrics"
	"github.com/m04kA/SMC-BarberBooking/pkg/txmanager"
)

// Наборы методов, которые нужны всем потребителям одного хранилища

type appointmentStore interface {
	proposeAppointmentUC.AppointmentRepository
	getAvailableSlotsUC.AppointmentRepository
	appointmentsService.AppointmentRepository
	staffService.AppointmentRepository
	agendaService.AppointmentRepository
}

type staffStore interface {
	proposeAppointmentUC.StaffRepository
	getAvailableSlotsUC.StaffRepository
	appointmentsService.StaffRepository
	configService.StaffRepository
	staffService.StaffRepository
	agendaService.StaffRepository
}

type shopStore interface {
	appointmentsService.ShopRepository
	configService.ShopRepository
	staffService.ShopRepository
}

type serviceStore interface {
	proposeAppointmentUC.ServiceRepository
	getAvailableSlotsUC.ServiceRepository
	agendaService.ServiceRepository
}

type configStore interface {
	proposeAppointmentUC.ConfigRepository
	getAvailableSlotsUC.ConfigRepository
	configService.ConfigRepository
}

type outboxStore interface {
	proposeAppointmentUC.OutboxRepository
	appointmentsService.OutboxRepository
	outbox.Repository
}

type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// storage хранилища выбранного драйвера
type storage struct {
	appointments appointmentStore
	staff        staffStore
	shops        shopStore
	services     serviceStore
	configs      configStore
	outbox       outboxStore
	tx           txManager

	close func()
}

func openStorage(ctx context.Context, cfg *config.Config, m *metrics.Metrics, log *logger.Logger) (*storage, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		return openMemory(cfg, log), nil
	default:
		return openPostgres(ctx, cfg, m, log)
	}
}

func openMemory(cfg *config.Config, log *logger.Logger) *storage {
	store := memory.NewStore()
	if cfg.Database.SeedDemo {
		memory.SeedDemo(store)
		log.Info("In-memory storage seeded with demo shop")
	}
	log.Info("Using in-memory storage, data is lost on restart")

	return &storage{
		appointments: store.Appointments(),
		staff:        store.Staff(),
		shops:        store.Shops(),
		services:     store.Services(),
		configs:      store.Configs(),
		outbox:       store.Outbox(),
		tx:           memory.NewTxManager(store),
		close:        func() {},
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, m *metrics.Metrics, log *logger.Logger) (*storage, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var (
		executor dbmetrics.DBExecutor
		beginner txmanager.Beginner
	)
	stopStatsCh := make(chan struct{})

	if m != nil {
		wrappedDB := dbmetrics.WrapWithDefault(db, m, cfg.Metrics.ServiceName, stopStatsCh)
		executor, beginner = wrappedDB, wrappedDB
		log.Info("Database metrics collection started")
	} else {
		executor, beginner = db, txmanager.SQLBeginner{DB: db}
	}

	return &storage{
		appointments: appointmentRepo.NewRepository(executor),
		staff:        staffRepo.NewRepository(executor),
		shops:        shopRepo.NewRepository(executor),
		services:     catalogRepo.NewRepository(executor),
		configs:      configRepo.NewRepository(executor),
		outbox:       outboxRepo.NewRepository(executor),
		tx:           txmanager.NewTransactionManager(beginner).WithMaxRetries(cfg.Database.MaxRetries),
		close: func() {
			close(stopStatsCh)
			_ = db.Close()
		},
	}, nil
}
