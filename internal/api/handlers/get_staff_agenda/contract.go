package get_staff_agenda

import (
	"context"
	"time"
)

type AgendaService interface {
	ExportICS(ctx context.Context, staffID int64, from time.Time, days int) (string, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
