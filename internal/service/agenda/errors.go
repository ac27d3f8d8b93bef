package agenda

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BarberBooking/internal/scheduling"
)

var (
	// ErrStaffNotFound возвращается, когда мастер не найден
	ErrStaffNotFound = fmt.Errorf("%w: staff member", scheduling.ErrNotFound)

	// ErrInvalidInput возвращается при некорректном периоде
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
