package appointment

import (
	"github.com/m04kA/SMC-BarberBooking/pkg/dbmetrics"
)

// DBExecutor БД или транзакция из контекста (dbmetrics.GetExecutor)
type DBExecutor = dbmetrics.DBExecutor
