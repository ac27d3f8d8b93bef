package appointments

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BarberBooking/internal/scheduling"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = fmt.Errorf("%w: appointment", scheduling.ErrNotFound)

	// ErrStaffNotFound возвращается, когда мастер не найден
	ErrStaffNotFound = fmt.Errorf("%w: staff member", scheduling.ErrNotFound)

	// ErrShopNotFound возвращается, когда салон не найден
	ErrShopNotFound = fmt.Errorf("%w: shop", scheduling.ErrNotFound)

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
