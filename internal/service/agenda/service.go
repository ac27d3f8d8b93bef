package agenda

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/catalog"
	staffRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/staff"
)

const productID = "-//SMC//BarberBooking//PT"

// Service экспорт расписания мастера в формате iCalendar
type Service struct {
	appointmentRepo AppointmentRepository
	staffRepo       StaffRepository
	serviceRepo     ServiceRepository
	location        *time.Location
	logger          Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	appointmentRepo AppointmentRepository,
	staffRepo StaffRepository,
	serviceRepo ServiceRepository,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		appointmentRepo: appointmentRepo,
		staffRepo:       staffRepo,
		serviceRepo:     serviceRepo,
		location:        location,
		logger:          logger,
	}
}

// ExportICS возвращает календарь с записями мастера за days дней начиная с from
// Отмененные записи в календарь не попадают. Данные клиентов не публикуются.
func (s *Service) ExportICS(ctx context.Context, staffID int64, from time.Time, days int) (string, error) {
	s.logger.Info("ExportICS: staff=%d, from=%s, days=%d", staffID, from.Format(domain.DateFormat), days)

	if days < 1 || days > domain.MaxAgendaDays {
		return "", fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidInput, domain.MaxAgendaDays)
	}

	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			s.logger.Warn("ExportICS: staff id=%d not found", staffID)
			return "", ErrStaffNotFound
		}
		s.logger.Error("ExportICS: failed to get staff id=%d: %v", staffID, err)
		return "", fmt.Errorf("%w: ExportICS - failed to get staff: %v", ErrInternal, err)
	}

	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, s.location)
	appointments, err := s.appointmentRepo.ListByStaff(ctx, domain.StaffAppointmentsFilter{
		StaffID: staff.ID,
		From:    start,
		To:      start.AddDate(0, 0, days),
	})
	if err != nil {
		s.logger.Error("ExportICS: repository error for staff=%d: %v", staffID, err)
		return "", fmt.Errorf("%w: ExportICS - repository error: %v", ErrInternal, err)
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetName(staff.Name)
	cal.SetXWRTimezone(s.location.String())

	names := make(map[int64]string)
	for _, appt := range appointments {
		name, err := s.serviceName(ctx, names, appt.ServiceID)
		if err != nil {
			return "", err
		}

		event := cal.AddEvent(eventUID(appt))
		event.SetDtStampTime(appt.UpdatedAt)
		event.SetCreatedTime(appt.CreatedAt)
		event.SetStartAt(appt.StartsAt)
		event.SetEndAt(appt.EndsAt())
		event.SetSummary(name)
		event.SetProperty(ical.ComponentPropertyStatus, "CONFIRMED")
	}

	s.logger.Info("ExportICS: exported %d appointments for staff=%d", len(appointments), staffID)
	return cal.Serialize(), nil
}

// serviceName название услуги с кэшем на время одного экспорта
func (s *Service) serviceName(ctx context.Context, cache map[int64]string, serviceID int64) (string, error) {
	if name, ok := cache[serviceID]; ok {
		return name, nil
	}

	service, err := s.serviceRepo.GetByID(ctx, serviceID)
	switch {
	case err == nil:
		cache[serviceID] = service.Name
	case errors.Is(err, catalogRepo.ErrServiceNotFound):
		s.logger.Warn("ExportICS: service id=%d not found, using placeholder", serviceID)
		cache[serviceID] = "Atendimento"
	default:
		s.logger.Error("ExportICS: failed to get service id=%d: %v", serviceID, err)
		return "", fmt.Errorf("%w: ExportICS - failed to get service: %v", ErrInternal, err)
	}

	return cache[serviceID], nil
}

func eventUID(appt *domain.Appointment) string {
	return "appointment-" + strconv.FormatInt(appt.ID, 10) + "@barberbooking"
}
