package propose_appointment

import (
	"context"

	proposeAppointment "github.com/m04kA/SMC-BarberBooking/internal/usecase/propose_appointment"
)

type ProposeAppointmentUseCase interface {
	Execute(ctx context.Context, req *proposeAppointment.Request) (*proposeAppointment.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
