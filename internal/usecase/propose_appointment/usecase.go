package propose_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/catalog"
	configRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/config"
	staffRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/staff"
	userClient "github.com/m04kA/SMC-BarberBooking/internal/integrations/userservice"
	"github.com/m04kA/SMC-BarberBooking/internal/scheduling"
	"github.com/m04kA/SMC-BarberBooking/pkg/ptr"
)

// Исходы записи для метрик
const (
	OutcomeConfirmed  = "confirmed"
	OutcomeConflict   = "conflict"
	OutcomeOutOfHours = "out_of_hours"
	OutcomeRejected   = "rejected"
	OutcomeError      = "error"
)

// UseCase use case записи клиента к мастеру
type UseCase struct {
	appointmentRepo AppointmentRepository
	staffRepo       StaffRepository
	serviceRepo     ServiceRepository
	configRepo      ConfigRepository
	outboxRepo      OutboxRepository
	userClient      UserServiceClient
	txManager       TransactionManager
	metrics         MetricsRecorder
	timeProvider    TimeProvider
	location        *time.Location
	granularity     int
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// location - часовой пояс салона, в нем проверяются рабочие часы.
// granularity - шаг сетки слотов по умолчанию, если в салоне нет своей конфигурации.
func NewUseCase(
	appointmentRepo AppointmentRepository,
	staffRepo StaffRepository,
	serviceRepo ServiceRepository,
	configRepo ConfigRepository,
	outboxRepo OutboxRepository,
	userClient UserServiceClient,
	txManager TransactionManager,
	metrics MetricsRecorder,
	location *time.Location,
	granularity int,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		staffRepo:       staffRepo,
		serviceRepo:     serviceRepo,
		configRepo:      configRepo,
		outboxRepo:      outboxRepo,
		userClient:      userClient,
		txManager:       txManager,
		metrics:         metrics,
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

// Execute записывает клиента к мастеру.
// Проверка рабочего окна, поиск пересечений и вставка выполняются в одной сериализуемой
// транзакции под блокировкой мастера, поэтому две пересекающиеся записи не могут обе пройти.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ProposeAppointment: client=%d, staff=%d, service=%d, start=%s",
		req.ClientID, req.StaffID, req.ServiceID, req.StartsAt.Format(time.RFC3339))

	result, service, err := uc.execute(ctx, req)
	uc.metrics.RecordAppointmentOutcome(outcomeOf(err))
	if err != nil {
		return nil, err
	}

	uc.logger.Info("ProposeAppointment: confirmed appointment id=%d, staff=%d, [%s, %s)",
		result.ID, result.StaffID, result.StartsAt.Format(time.RFC3339), result.EndsAt().Format(time.RFC3339))

	return &Response{
		ID:              result.ID,
		StaffID:         result.StaffID,
		ServiceID:       result.ServiceID,
		ClientID:        result.ClientID,
		StartsAt:        result.StartsAt,
		EndsAt:          result.EndsAt(),
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		ServiceName:     service.Name,
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
	}, nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*domain.Appointment, *domain.Service, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ProposeAppointment: validation failed: %v", err)
		return nil, nil, err
	}

	start := req.StartsAt.In(uc.location)
	now := uc.timeProvider.Now().In(uc.location)

	// 2. Получаем мастера
	staff, err := uc.staffRepo.GetByID(ctx, req.StaffID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			uc.logger.Warn("ProposeAppointment: staff id=%d not found", req.StaffID)
			return nil, nil, ErrStaffNotFound
		}
		uc.logger.Error("ProposeAppointment: failed to get staff id=%d: %v", req.StaffID, err)
		return nil, nil, fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}
	if !staff.Active {
		uc.logger.Warn("ProposeAppointment: staff id=%d is inactive", req.StaffID)
		return nil, nil, ErrStaffNotFound
	}

	// 3. Получаем услугу и проверяем, что её оказывают в салоне мастера
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("ProposeAppointment: service id=%d not found", req.ServiceID)
			return nil, nil, ErrServiceNotFound
		}
		uc.logger.Error("ProposeAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.Active {
		uc.logger.Warn("ProposeAppointment: service id=%d is inactive", req.ServiceID)
		return nil, nil, ErrServiceNotFound
	}
	if service.ShopID != staff.ShopID {
		uc.logger.Warn("ProposeAppointment: service id=%d (shop=%d) is not offered by staff id=%d (shop=%d)",
			service.ID, service.ShopID, staff.ID, staff.ShopID)
		return nil, nil, ErrServiceNotOffered
	}
	if service.DurationMinutes <= 0 {
		uc.logger.Error("ProposeAppointment: service id=%d has non-positive duration %d", service.ID, service.DurationMinutes)
		return nil, nil, fmt.Errorf("%w: service id=%d duration=%d", scheduling.ErrInvariantViolation, service.ID, service.DurationMinutes)
	}

	// 4. Проверяем учетную запись клиента (при недоступности UserService запись продолжается)
	user, err := uc.userClient.GetUserWithGracefulDegradation(ctx, req.ClientID)
	switch {
	case err == nil:
		if !user.Active {
			uc.logger.Warn("ProposeAppointment: client id=%d is blocked", req.ClientID)
			return nil, nil, ErrClientBlocked
		}
	case errors.Is(err, userClient.ErrUserNotFound):
		return nil, nil, ErrClientNotFound
	case errors.Is(err, userClient.ErrServiceDegraded):
		uc.logger.Warn("ProposeAppointment: skipping account check for client id=%d", req.ClientID)
	default:
		uc.logger.Error("ProposeAppointment: failed to get client id=%d: %v", req.ClientID, err)
		return nil, nil, fmt.Errorf("%w: failed to get client: %v", ErrInternal, err)
	}

	var result *domain.Appointment

	// 5. Проверки и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Конфигурация бронирования с учетом иерархии
		config, err := uc.configRepo.GetConfigWithHierarchy(txCtx, staff.ShopID, ptr.Ptr(staff.ID))
		if err != nil && !errors.Is(err, configRepo.ErrConfigNotFound) {
			uc.logger.Error("ProposeAppointment: failed to get config: %v", err)
			return fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
		}
		if config == nil {
			config = domain.DefaultBookingConfig(staff.ShopID, uc.granularity)
		}

		// 5.2. Минимальное время до записи и горизонт бронирования
		if err := scheduling.CheckBookingPolicy(config, start, now); err != nil {
			uc.logger.Warn("ProposeAppointment: booking policy (%s config) rejected start=%s: %v",
				config.Level(), start.Format(time.RFC3339), err)
			return err
		}

		// 5.3. Рабочее окно мастера
		if err := scheduling.CheckWorkingWindow(staff, start, service.DurationMinutes); err != nil {
			uc.logger.Warn("ProposeAppointment: %v", err)
			return err
		}

		// 5.4. Блокировка мастера до конца транзакции
		if err := uc.appointmentRepo.LockStaff(txCtx, staff.ID); err != nil {
			uc.logger.Error("ProposeAppointment: failed to lock staff id=%d: %v", staff.ID, err)
			return fmt.Errorf("%w: failed to lock staff: %v", ErrInternal, err)
		}

		// Мастера могли снять с работы, пока мы ждали блокировку.
		// FOR SHARE видит последнюю версию строки: если ее изменили после снимка, транзакция повторится.
		current, err := uc.staffRepo.GetByIDForShare(txCtx, staff.ID)
		if err != nil {
			uc.logger.Error("ProposeAppointment: failed to reload staff id=%d: %v", staff.ID, err)
			return fmt.Errorf("%w: failed to reload staff: %v", ErrInternal, err)
		}
		if !current.Active {
			uc.logger.Warn("ProposeAppointment: staff id=%d was deactivated", staff.ID)
			return ErrStaffNotFound
		}

		// 5.5. Записи мастера на этот день и поиск пересечения
		existing, err := uc.appointmentRepo.FindByStaffAndDate(txCtx, staff.ID, start)
		if err != nil {
			uc.logger.Error("ProposeAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		candidate := &domain.Appointment{
			StaffID:         staff.ID,
			ServiceID:       service.ID,
			ClientID:        req.ClientID,
			StartsAt:        start,
			DurationMinutes: service.DurationMinutes,
			Status:          domain.StatusConfirmed,
			Notes:           req.Notes,
		}

		conflicting, err := scheduling.FirstConflict(candidate, existing)
		if err != nil {
			uc.logger.Error("ProposeAppointment: conflict check failed for staff id=%d: %v", staff.ID, err)
			return err
		}
		if conflicting != nil {
			conflictErr := scheduling.NewConflictError(candidate, conflicting)
			uc.logger.Warn("ProposeAppointment: %v", conflictErr)
			return conflictErr
		}

		// 5.6. Сохраняем запись и событие
		created, err := uc.appointmentRepo.Create(txCtx, candidate)
		if err != nil {
			uc.logger.Error("ProposeAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		event, err := domain.NewAppointmentEvent(domain.EventAppointmentConfirmed, created, now)
		if err != nil {
			return fmt.Errorf("%w: failed to build event: %v", ErrInternal, err)
		}
		if err := uc.outboxRepo.Insert(txCtx, event); err != nil {
			uc.logger.Error("ProposeAppointment: failed to write outbox event: %v", err)
			return fmt.Errorf("%w: failed to write outbox event: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, nil, err
	}

	return result, service, nil
}

// outcomeOf сводит ошибку к метке метрики
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeConfirmed
	case errors.Is(err, scheduling.ErrConflict):
		return OutcomeConflict
	case errors.Is(err, scheduling.ErrOutOfHours):
		return OutcomeOutOfHours
	case errors.Is(err, ErrInternal), errors.Is(err, scheduling.ErrInvariantViolation):
		return OutcomeError
	default:
		return OutcomeRejected
	}
}
