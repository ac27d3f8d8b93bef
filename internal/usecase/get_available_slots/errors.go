package get_available_slots

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BarberBooking/internal/scheduling"
)

var (
	// ErrStaffNotFound возвращается, когда мастер не найден или неактивен
	ErrStaffNotFound = fmt.Errorf("%w: get_available_slots: staff member", scheduling.ErrNotFound)

	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = fmt.Errorf("%w: get_available_slots: service", scheduling.ErrNotFound)

	// ErrServiceNotOffered возвращается, когда услуга принадлежит другому салону
	ErrServiceNotOffered = errors.New("get_available_slots: service is not offered by this staff member")

	// ErrInvalidDate возвращается, когда дата в прошлом
	ErrInvalidDate = errors.New("get_available_slots: date is in the past")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
