package delete_staff

import "context"

type StaffService interface {
	Delete(ctx context.Context, staffID int64, userID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
