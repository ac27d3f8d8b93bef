package appointments

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/appointment"
	shopRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/shop"
	staffRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/staff"
	"github.com/m04kA/SMC-BarberBooking/internal/scheduling"
	"github.com/m04kA/SMC-BarberBooking/internal/service/appointments/models"
)

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	staffRepo       StaffRepository
	shopRepo        ShopRepository
	outboxRepo      OutboxRepository
	txManager       TransactionManager
	metrics         MetricsRecorder
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	staffRepo StaffRepository,
	shopRepo ShopRepository,
	outboxRepo OutboxRepository,
	txManager TransactionManager,
	metrics MetricsRecorder,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		staffRepo:       staffRepo,
		shopRepo:        shopRepo,
		outboxRepo:      outboxRepo,
		txManager:       txManager,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает запись по ID
// Доступно клиенту, который записался, и владельцу салона мастера
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appt, err := s.getAppointment(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if err := s.checkClientOrOwnerAccess(ctx, appt, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, err
	}

	return models.FromDomainAppointment(appt), nil
}

// GetClientAppointments получает записи клиента, опционально по статусу
func (s *Service) GetClientAppointments(ctx context.Context, req *models.GetClientAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetClientAppointments: fetching appointments for user=%d, status=%v", req.UserID, req.Status)

	var status *domain.AppointmentStatus
	if req.Status != nil {
		st, err := models.ToDomainAppointmentStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetClientAppointments: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		status = &st
	}

	list, err := s.appointmentRepo.ListByClient(ctx, req.UserID, status)
	if err != nil {
		s.logger.Error("GetClientAppointments: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetClientAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetClientAppointments: fetched %d appointments for user=%d", len(list), req.UserID)
	return models.FromDomainAppointmentList(list), nil
}

// GetStaffAppointments получает записи мастера
// Доступно только владельцу салона
func (s *Service) GetStaffAppointments(ctx context.Context, req *models.GetStaffAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetStaffAppointments: staff=%d, user=%d", req.StaffID, req.UserID)

	if _, err := s.checkOwnerAccess(ctx, req.StaffID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetStaffAppointments: invalid filter for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	list, err := s.appointmentRepo.ListByStaff(ctx, filter)
	if err != nil {
		s.logger.Error("GetStaffAppointments: repository error for staff=%d: %v", req.StaffID, err)
		return nil, fmt.Errorf("%w: GetStaffAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetStaffAppointments: fetched %d appointments for staff=%d", len(list), req.StaffID)
	return models.FromDomainAppointmentList(list), nil
}

// Cancel отменяет запись
// Отменить может клиент, который записался, или владелец салона.
// Повторная отмена возвращает *scheduling.InvalidTransitionError и ничего не меняет.
func (s *Service) Cancel(ctx context.Context, appointmentID int64, req *models.CancelAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", appointmentID, req.UserID)

	if req.CancellationReason != nil && utf8.RuneCountInString(*req.CancellationReason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason must be at most %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	result, err := s.transition(ctx, "Cancel", appointmentID, domain.StatusCancelled, req.CancellationReason,
		func(appt *domain.Appointment) error {
			return s.checkClientOrOwnerAccess(ctx, appt, req.UserID)
		}, nil)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAppointmentOutcome(string(domain.StatusCancelled))
	s.logger.Info("Cancel: cancelled appointment id=%d", appointmentID)
	return models.FromDomainAppointment(result), nil
}

// Complete отмечает запись выполненной
// Доступно только владельцу салона и только после начала записи
func (s *Service) Complete(ctx context.Context, appointmentID int64, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("Complete: completing appointment id=%d by user=%d", appointmentID, userID)

	result, err := s.transition(ctx, "Complete", appointmentID, domain.StatusCompleted, nil,
		func(appt *domain.Appointment) error {
			_, err := s.checkOwnerAccess(ctx, appt.StaffID, userID)
			return err
		},
		func(appt *domain.Appointment) error {
			if appt.StartsAt.After(s.timeProvider.Now()) {
				s.logger.Warn("Complete: appointment id=%d starts at %s, not started yet", appt.ID, appt.StartsAt)
				return scheduling.ErrPrematureCompletion
			}
			return nil
		})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAppointmentOutcome(string(domain.StatusCompleted))
	s.logger.Info("Complete: completed appointment id=%d", appointmentID)
	return models.FromDomainAppointment(result), nil
}

// transition выполняет переход статуса с оптимистичной проверкой текущего статуса
// и записью события в outbox в одной транзакции.
// ready проверяется только для допустимого перехода (может быть nil).
func (s *Service) transition(
	ctx context.Context,
	op string,
	appointmentID int64,
	next domain.AppointmentStatus,
	reason *string,
	authorize func(appt *domain.Appointment) error,
	ready func(appt *domain.Appointment) error,
) (*domain.Appointment, error) {
	var result *domain.Appointment

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		appt, err := s.getAppointment(txCtx, op, appointmentID)
		if err != nil {
			return err
		}

		if err := authorize(appt); err != nil {
			return err
		}

		if err := scheduling.CheckTransition(appt, next); err != nil {
			s.logger.Warn("%s: %v", op, err)
			return err
		}

		if ready != nil {
			if err := ready(appt); err != nil {
				return err
			}
		}

		now := s.timeProvider.Now()
		ok, err := s.appointmentRepo.UpdateStatus(txCtx, appt.ID, appt.Status, next, reason, now)
		if err != nil {
			s.logger.Error("%s: repository error for appointment id=%d: %v", op, appt.ID, err)
			return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
		}
		if !ok {
			// Статус изменился параллельно между чтением и записью
			current, err := s.getAppointment(txCtx, op, appt.ID)
			if err != nil {
				return err
			}
			s.logger.Warn("%s: appointment id=%d changed concurrently, status=%s", op, appt.ID, current.Status)
			return &scheduling.InvalidTransitionError{AppointmentID: appt.ID, From: current.Status, To: next}
		}

		appt.Status = next
		appt.UpdatedAt = now
		switch next {
		case domain.StatusCancelled:
			appt.CancelledAt = &now
			appt.CancellationReason = reason
		case domain.StatusCompleted:
			appt.CompletedAt = &now
		}

		event, err := domain.NewAppointmentEvent(eventTypeFor(next), appt, now)
		if err != nil {
			return fmt.Errorf("%w: %s - build event: %v", ErrInternal, op, err)
		}
		if err := s.outboxRepo.Insert(txCtx, event); err != nil {
			s.logger.Error("%s: failed to write outbox event: %v", op, err)
			return fmt.Errorf("%w: %s - outbox error: %v", ErrInternal, op, err)
		}

		result = appt
		return nil
	})

	return result, err
}

func eventTypeFor(status domain.AppointmentStatus) string {
	if status == domain.StatusCompleted {
		return domain.EventAppointmentCompleted
	}
	return domain.EventAppointmentCancelled
}

// Вспомогательные методы

func (s *Service) getAppointment(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appt, nil
}

// checkClientOrOwnerAccess пользователь - клиент записи или владелец салона мастера
func (s *Service) checkClientOrOwnerAccess(ctx context.Context, appt *domain.Appointment, userID int64) error {
	if appt.ClientID == userID {
		return nil
	}

	if _, err := s.checkOwnerAccess(ctx, appt.StaffID, userID); err != nil {
		if errors.Is(err, ErrInternal) {
			return err
		}
		return ErrAccessDenied
	}

	return nil
}

// checkOwnerAccess проверяет, что пользователь владеет салоном мастера
func (s *Service) checkOwnerAccess(ctx context.Context, staffID int64, userID int64) (*domain.StaffMember, error) {
	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			s.logger.Warn("checkOwnerAccess: staff id=%d not found", staffID)
			return nil, ErrStaffNotFound
		}
		s.logger.Error("checkOwnerAccess: failed to get staff id=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: checkOwnerAccess - failed to get staff: %v", ErrInternal, err)
	}

	shop, err := s.shopRepo.GetByID(ctx, staff.ShopID)
	if err != nil {
		if errors.Is(err, shopRepo.ErrShopNotFound) {
			s.logger.Warn("checkOwnerAccess: shop id=%d not found", staff.ShopID)
			return nil, ErrShopNotFound
		}
		s.logger.Error("checkOwnerAccess: failed to get shop id=%d: %v", staff.ShopID, err)
		return nil, fmt.Errorf("%w: checkOwnerAccess - failed to get shop: %v", ErrInternal, err)
	}

	if !shop.IsOwner(userID) {
		s.logger.Warn("checkOwnerAccess: user=%d is not the owner of shop=%d", userID, shop.ID)
		return nil, ErrAccessDenied
	}

	return staff, nil
}
