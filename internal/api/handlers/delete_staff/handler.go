package delete_staff

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/api/middleware"
	"github.com/m04kA/SMC-BarberBooking/internal/scheduling"
	"github.com/m04kA/SMC-BarberBooking/internal/service/staff"
)

const (
	msgInvalidStaffID     = "некорректный ID мастера"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "мастер не найден"
	msgForbidden          = "доступ запрещен"
	msgActiveAppointments = "у мастера есть активные записи"
)

type Handler struct {
	service StaffService
	logger  Logger
}

func NewHandler(service StaffService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/staff/{staffId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, err := strconv.ParseInt(mux.Vars(r)["staffId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /staff/{id} - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /staff/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.Delete(r.Context(), staffID, userID); err != nil {
		switch {
		case errors.Is(err, scheduling.ErrNotFound):
			h.logger.Warn("DELETE /staff/{id} - Staff not found: staff_id=%d", staffID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, staff.ErrAccessDenied):
			h.logger.Warn("DELETE /staff/{id} - Access denied: staff_id=%d, user_id=%d", staffID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, staff.ErrStaffHasActiveAppointments):
			h.logger.Warn("DELETE /staff/{id} - Staff has active appointments: staff_id=%d", staffID)
			handlers.RespondConflict(w, msgActiveAppointments)

		default:
			h.logger.Error("DELETE /staff/{id} - Failed to delete staff: staff_id=%d, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /staff/{id} - Staff deactivated: staff_id=%d, user_id=%d", staffID, userID)
	handlers.RespondNoContent(w)
}
