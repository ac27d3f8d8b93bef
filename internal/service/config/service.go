package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	configRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/config"
	shopRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/shop"
	staffRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/staff"
	"github.com/m04kA/SMC-BarberBooking/internal/service/config/models"
)

// Service сервис для работы с конфигурацией бронирования
type Service struct {
	configRepo         ConfigRepository
	shopRepo           ShopRepository
	staffRepo          StaffRepository
	defaultGranularity int
	logger             Logger
}

// NewService создает новый экземпляр сервиса конфигурации
// defaultGranularity - шаг слотов из конфигурации сервиса, если у салона нет своей
func NewService(
	configRepo ConfigRepository,
	shopRepo ShopRepository,
	staffRepo StaffRepository,
	defaultGranularity int,
	logger Logger,
) *Service {
	return &Service{
		configRepo:         configRepo,
		shopRepo:           shopRepo,
		staffRepo:          staffRepo,
		defaultGranularity: defaultGranularity,
		logger:             logger,
	}
}

// GetEffective получает действующую конфигурацию с учетом иерархии
// Публичный метод - доступен всем
// Приоритет: мастер > салон > значения по умолчанию
func (s *Service) GetEffective(ctx context.Context, req *models.GetConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("GetEffective: fetching config for shop=%d, staff=%v", req.ShopID, req.StaffID)

	if _, err := s.getShop(ctx, "GetEffective", req.ShopID); err != nil {
		return nil, err
	}
	if err := s.checkStaffInShop(ctx, "GetEffective", req.ShopID, req.StaffID); err != nil {
		return nil, err
	}

	config, err := s.effective(ctx, req.ShopID, req.StaffID)
	if err != nil {
		s.logger.Error("GetEffective: repository error: %v", err)
		return nil, err
	}

	s.logger.Info("GetEffective: fetched config for shop=%d (level: %s)", req.ShopID, config.Level())
	return models.FromDomainConfig(config), nil
}

// GetAllByShop получает все сохраненные конфигурации салона
// Доступно только владельцу салона
func (s *Service) GetAllByShop(ctx context.Context, shopID int64, userID int64) (*models.ConfigListResponse, error) {
	s.logger.Info("GetAllByShop: fetching configs for shop=%d by user=%d", shopID, userID)

	if err := s.checkOwnerAccess(ctx, "GetAllByShop", shopID, userID); err != nil {
		return nil, err
	}

	configs, err := s.configRepo.GetAllByShop(ctx, shopID)
	if err != nil {
		s.logger.Error("GetAllByShop: repository error for shop=%d: %v", shopID, err)
		return nil, fmt.Errorf("%w: GetAllByShop - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetAllByShop: fetched %d configs for shop=%d", len(configs), shopID)
	return models.FromDomainConfigList(configs), nil
}

// Upsert создает или изменяет конфигурацию салона или мастера
// Доступно только владельцу салона.
// Поля, которые не переданы, берутся из действующей конфигурации этого уровня.
func (s *Service) Upsert(ctx context.Context, req *models.UpsertConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("Upsert: saving config for shop=%d, staff=%v by user=%d", req.ShopID, req.StaffID, req.UserID)

	// 1. Права доступа (только владелец салона)
	if err := s.checkOwnerAccess(ctx, "Upsert", req.ShopID, req.UserID); err != nil {
		return nil, err
	}

	// 2. Мастер должен работать в этом салоне
	if err := s.checkStaffInShop(ctx, "Upsert", req.ShopID, req.StaffID); err != nil {
		return nil, err
	}

	// 3. Берем действующую конфигурацию за основу
	base, err := s.effective(ctx, req.ShopID, req.StaffID)
	if err != nil {
		s.logger.Error("Upsert: repository error: %v", err)
		return nil, err
	}

	config := &domain.BookingConfig{
		ShopID:                  req.ShopID,
		StaffID:                 req.StaffID,
		SlotGranularityMinutes:  base.SlotGranularityMinutes,
		AdvanceBookingDays:      base.AdvanceBookingDays,
		MinBookingNoticeMinutes: base.MinBookingNoticeMinutes,
	}
	req.ApplyTo(config)

	// 4. Валидируем итоговые значения
	if err := validateConfigData(config); err != nil {
		s.logger.Warn("Upsert: validation failed for shop=%d: %v", req.ShopID, err)
		return nil, err
	}

	// 5. Сохраняем
	saved, err := s.configRepo.Upsert(ctx, config)
	if err != nil {
		s.logger.Error("Upsert: repository error for shop=%d: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: saved config id=%d (level: %s)", saved.ID, saved.Level())
	return models.FromDomainConfig(saved), nil
}

// Delete удаляет конфигурацию уровня, после чего действует уровень выше
// Доступно только владельцу салона
func (s *Service) Delete(ctx context.Context, req *models.DeleteConfigRequest) error {
	s.logger.Info("Delete: deleting config for shop=%d, staff=%v by user=%d", req.ShopID, req.StaffID, req.UserID)

	if err := s.checkOwnerAccess(ctx, "Delete", req.ShopID, req.UserID); err != nil {
		return err
	}

	if err := s.configRepo.DeleteByShopAndStaff(ctx, req.ShopID, req.StaffID); err != nil {
		if errors.Is(err, configRepo.ErrConfigNotFound) {
			s.logger.Warn("Delete: config not found for shop=%d, staff=%v", req.ShopID, req.StaffID)
			return ErrConfigNotFound
		}
		s.logger.Error("Delete: repository error: %v", err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: deleted config for shop=%d, staff=%v", req.ShopID, req.StaffID)
	return nil
}

// Вспомогательные методы

// effective возвращает конфигурацию по иерархии, без сохраненных - значения по умолчанию
func (s *Service) effective(ctx context.Context, shopID int64, staffID *int64) (*domain.BookingConfig, error) {
	config, err := s.configRepo.GetConfigWithHierarchy(ctx, shopID, staffID)
	if err != nil {
		if errors.Is(err, configRepo.ErrConfigNotFound) {
			return domain.DefaultBookingConfig(shopID, s.defaultGranularity), nil
		}
		return nil, fmt.Errorf("%w: effective - repository error: %v", ErrInternal, err)
	}
	return config, nil
}

func (s *Service) getShop(ctx context.Context, op string, shopID int64) (*domain.Shop, error) {
	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		if errors.Is(err, shopRepo.ErrShopNotFound) {
			s.logger.Warn("%s: shop id=%d not found", op, shopID)
			return nil, ErrShopNotFound
		}
		s.logger.Error("%s: failed to get shop id=%d: %v", op, shopID, err)
		return nil, fmt.Errorf("%w: %s - failed to get shop: %v", ErrInternal, op, err)
	}
	return shop, nil
}

// checkOwnerAccess проверяет, что пользователь владеет салоном
func (s *Service) checkOwnerAccess(ctx context.Context, op string, shopID, userID int64) error {
	shop, err := s.getShop(ctx, op, shopID)
	if err != nil {
		return err
	}
	if !shop.IsOwner(userID) {
		s.logger.Warn("%s: user=%d is not the owner of shop=%d", op, userID, shopID)
		return ErrAccessDenied
	}
	return nil
}

// checkStaffInShop проверяет, что мастер (если указан) работает в салоне
func (s *Service) checkStaffInShop(ctx context.Context, op string, shopID int64, staffID *int64) error {
	if staffID == nil {
		return nil
	}

	staff, err := s.staffRepo.GetByID(ctx, *staffID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			s.logger.Warn("%s: staff id=%d not found", op, *staffID)
			return ErrStaffNotFound
		}
		s.logger.Error("%s: failed to get staff id=%d: %v", op, *staffID, err)
		return fmt.Errorf("%w: %s - failed to get staff: %v", ErrInternal, op, err)
	}

	if staff.ShopID != shopID {
		s.logger.Warn("%s: staff id=%d belongs to shop=%d, not %d", op, staff.ID, staff.ShopID, shopID)
		return ErrStaffNotFound
	}
	return nil
}

// validateConfigData валидирует параметры конфигурации
func validateConfigData(c *domain.BookingConfig) error {
	if c.SlotGranularityMinutes < domain.MinSlotGranularityMinutes || c.SlotGranularityMinutes > domain.MaxSlotGranularityMinutes {
		return fmt.Errorf("%w: slotGranularityMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotGranularityMinutes, domain.MaxSlotGranularityMinutes)
	}

	if c.AdvanceBookingDays < domain.MinAdvanceBookingDays || c.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}

	if c.MinBookingNoticeMinutes < domain.MinBookingNoticeMinutes || c.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: minBookingNoticeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBookingNoticeMinutes, domain.MaxBookingNoticeMinutes)
	}

	return nil
}
