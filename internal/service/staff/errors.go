package staff

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BarberBooking/internal/scheduling"
)

var (
	// ErrStaffNotFound возвращается, когда мастер не найден или уже удален
	ErrStaffNotFound = fmt.Errorf("%w: staff member", scheduling.ErrNotFound)

	// ErrShopNotFound возвращается, когда салон мастера не найден
	ErrShopNotFound = fmt.Errorf("%w: shop", scheduling.ErrNotFound)

	// ErrAccessDenied возвращается, когда пользователь не владелец салона
	ErrAccessDenied = errors.New("access denied")

	// ErrStaffHasActiveAppointments возвращается, когда у мастера есть предстоящие записи
	ErrStaffHasActiveAppointments = errors.New("staff member has upcoming confirmed appointments")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
