package propose_appointment

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BarberBooking/internal/scheduling"
)

var (
	// ErrStaffNotFound возвращается, когда мастер не найден или неактивен
	ErrStaffNotFound = fmt.Errorf("%w: propose_appointment: staff member", scheduling.ErrNotFound)

	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = fmt.Errorf("%w: propose_appointment: service", scheduling.ErrNotFound)

	// ErrClientNotFound возвращается, когда клиент не найден в UserService
	ErrClientNotFound = fmt.Errorf("%w: propose_appointment: client", scheduling.ErrNotFound)

	// ErrServiceNotOffered возвращается, когда услуга принадлежит другому салону
	ErrServiceNotOffered = errors.New("propose_appointment: service is not offered by this staff member")

	// ErrClientBlocked возвращается, когда учетная запись клиента заблокирована
	ErrClientBlocked = errors.New("propose_appointment: client account is blocked")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("propose_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("propose_appointment: internal error")
)
