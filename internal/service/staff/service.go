package staff

import (
	"context"
	"errors"
	"fmt"

	shopRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/shop"
	staffRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/staff"
)

// Service сервис управления мастерами салона
type Service struct {
	staffRepo       StaffRepository
	shopRepo        ShopRepository
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса мастеров
func NewService(
	staffRepo StaffRepository,
	shopRepo ShopRepository,
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		staffRepo:       staffRepo,
		shopRepo:        shopRepo,
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Delete снимает мастера с работы (мягкое удаление, история записей сохраняется)
// Доступно только владельцу салона.
// Пока у мастера есть подтвержденные записи в будущем, возвращает ErrStaffHasActiveAppointments.
func (s *Service) Delete(ctx context.Context, staffID int64, userID int64) error {
	s.logger.Info("Delete: removing staff id=%d by user=%d", staffID, userID)

	// Сериализуемая транзакция: параллельная запись к этому мастеру конфликтует с удалением и повторяется
	return s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Мастер и права доступа
		member, err := s.staffRepo.GetByID(txCtx, staffID)
		if err != nil {
			if errors.Is(err, staffRepo.ErrStaffNotFound) {
				s.logger.Warn("Delete: staff id=%d not found", staffID)
				return ErrStaffNotFound
			}
			s.logger.Error("Delete: failed to get staff id=%d: %v", staffID, err)
			return fmt.Errorf("%w: Delete - failed to get staff: %v", ErrInternal, err)
		}
		if !member.Active {
			s.logger.Warn("Delete: staff id=%d is already inactive", staffID)
			return ErrStaffNotFound
		}

		shop, err := s.shopRepo.GetByID(txCtx, member.ShopID)
		if err != nil {
			if errors.Is(err, shopRepo.ErrShopNotFound) {
				s.logger.Warn("Delete: shop id=%d not found", member.ShopID)
				return ErrShopNotFound
			}
			s.logger.Error("Delete: failed to get shop id=%d: %v", member.ShopID, err)
			return fmt.Errorf("%w: Delete - failed to get shop: %v", ErrInternal, err)
		}
		if !shop.IsOwner(userID) {
			s.logger.Warn("Delete: user=%d is not the owner of shop=%d", userID, shop.ID)
			return ErrAccessDenied
		}

		// 2. Блокируем мастера, чтобы параллельная запись не проскочила между проверкой и удалением
		if err := s.appointmentRepo.LockStaff(txCtx, staffID); err != nil {
			s.logger.Error("Delete: failed to lock staff id=%d: %v", staffID, err)
			return fmt.Errorf("%w: Delete - failed to lock staff: %v", ErrInternal, err)
		}

		// 3. Предстоящие записи
		active, err := s.appointmentRepo.CountActiveFrom(txCtx, staffID, s.timeProvider.Now())
		if err != nil {
			s.logger.Error("Delete: failed to count appointments of staff id=%d: %v", staffID, err)
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}
		if active > 0 {
			s.logger.Warn("Delete: staff id=%d has %d upcoming appointments", staffID, active)
			return fmt.Errorf("%w: %d upcoming", ErrStaffHasActiveAppointments, active)
		}

		// 4. Мягкое удаление
		if err := s.staffRepo.Deactivate(txCtx, staffID); err != nil {
			s.logger.Error("Delete: failed to deactivate staff id=%d: %v", staffID, err)
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}

		s.logger.Info("Delete: staff id=%d deactivated", staffID)
		return nil
	})
}
