package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/catalog"
	configRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/config"
	staffRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/staff"
	"github.com/m04kA/SMC-BarberBooking/internal/scheduling"
	"github.com/m04kA/SMC-BarberBooking/pkg/ptr"
)

// UseCase use case для получения слотов мастера на день
type UseCase struct {
	appointmentRepo AppointmentRepository
	staffRepo       StaffRepository
	serviceRepo     ServiceRepository
	configRepo      ConfigRepository
	timeProvider    TimeProvider
	location        *time.Location
	granularity     int
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	staffRepo StaffRepository,
	serviceRepo ServiceRepository,
	configRepo ConfigRepository,
	location *time.Location,
	granularity int,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		staffRepo:       staffRepo,
		serviceRepo:     serviceRepo,
		configRepo:      configRepo,
		timeProvider:    &RealTimeProvider{},
		location:        location,
		granularity:     granularity,
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute возвращает слоты мастера на день.
// Слоты, нарушающие минимальное время до записи или горизонт бронирования, не возвращаются,
// слоты, пересекающиеся с записями, возвращаются с Available = false.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: staff=%d, service=%d, date=%s",
		req.StaffID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	date := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, uc.location)
	now := uc.timeProvider.Now().In(uc.location)

	if isDateInPast(date, now) {
		uc.logger.Warn("GetAvailableSlots: date %s is in the past", date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 2. Получаем мастера
	staff, err := uc.staffRepo.GetByID(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			uc.logger.Warn("GetAvailableSlots: staff id=%d not found", req.StaffID)
			return nil, ErrStaffNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}
	if !staff.Active {
		return nil, ErrStaffNotFound
	}

	// 3. Получаем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.Active {
		return nil, ErrServiceNotFound
	}
	if service.ShopID != staff.ShopID {
		uc.logger.Warn("GetAvailableSlots: service id=%d is not offered by staff id=%d", service.ID, staff.ID)
		return nil, ErrServiceNotOffered
	}

	// 4. Конфигурация бронирования с учетом иерархии
	config, err := uc.configRepo.GetConfigWithHierarchy(ctx, staff.ShopID, ptr.Ptr(staff.ID))
	if err != nil && !errors.Is(err, configRepo.ErrConfigNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to get config: %v", err)
		return nil, fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
	}
	if config == nil {
		config = domain.DefaultBookingConfig(staff.ShopID, uc.granularity)
	}

	// 5. Записи мастера на день
	existing, err := uc.appointmentRepo.FindByStaffAndDate(ctx, staff.ID, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 6. Формируем слоты
	slots := make([]Slot, 0)
	for start := range scheduling.Slots(staff, service.DurationMinutes, date, config.SlotGranularity()) {
		if scheduling.CheckBookingPolicy(config, start, now) != nil {
			continue
		}

		candidate := &domain.Appointment{
			StaffID:         staff.ID,
			StartsAt:        start,
			DurationMinutes: service.DurationMinutes,
		}
		conflicting, err := scheduling.FirstConflict(candidate, existing)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: conflict check failed for staff id=%d: %v", staff.ID, err)
			return nil, err
		}

		slots = append(slots, Slot{
			StartsAt:  start,
			EndsAt:    candidate.EndsAt(),
			Available: conflicting == nil,
		})
	}

	uc.logger.Info("GetAvailableSlots: staff=%d, date=%s, %d slots (%s config)",
		staff.ID, date.Format(domain.DateFormat), len(slots), config.Level())

	return &Response{
		Date:                   date,
		StaffID:                staff.ID,
		ServiceID:              service.ID,
		DurationMinutes:        service.DurationMinutes,
		SlotGranularityMinutes: config.SlotGranularityMinutes,
		Slots:                  slots,
	}, nil
}
