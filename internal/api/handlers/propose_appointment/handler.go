package propose_appointment

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/api/middleware"
	"github.com/m04kA/SMC-BarberBooking/internal/scheduling"
	proposeAppointment "github.com/m04kA/SMC-BarberBooking/internal/usecase/propose_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
	msgInvalidInput       = "некорректные параметры записи"
	msgConflict           = "мастер уже занят в это время"
	msgOutOfHours         = "выбранное время вне рабочего графика мастера"
	msgStartInPast        = "нельзя записаться на прошедшее время"
	msgNoticeTooShort     = "слишком поздно для записи на это время"
	msgBeyondHorizon      = "дата записи слишком далеко в будущем"
	msgStaffNotFound      = "мастер не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgClientNotFound     = "клиент не найден"
	msgServiceNotOffered  = "мастер не оказывает эту услугу"
	msgClientBlocked      = "учетная запись заблокирована"
)

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid time")
)

type Handler struct {
	useCase  ProposeAppointmentUseCase
	location *time.Location
	logger   Logger
}

// NewHandler location - часовой пояс, в котором клиент указывает дату и время
func NewHandler(useCase ProposeAppointmentUseCase, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ProposeAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(userID, h.location)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var conflictErr *scheduling.ConflictError
		var outOfHoursErr *scheduling.OutOfHoursError

		switch {
		case errors.As(err, &conflictErr):
			h.logger.Warn("POST /appointments - Conflict: staff_id=%d, conflicting_id=%d",
				conflictErr.StaffID, conflictErr.ConflictingAppointmentID)
			handlers.RespondErrorWithDetails(w, http.StatusConflict, msgConflict, conflictDetails(conflictErr))

		case errors.As(err, &outOfHoursErr):
			h.logger.Warn("POST /appointments - Out of hours: staff_id=%d, reason=%s", req.StaffID, outOfHoursErr.Reason)
			handlers.RespondErrorWithDetails(w, http.StatusUnprocessableEntity, msgOutOfHours,
				&OutOfHoursDetails{Reason: string(outOfHoursErr.Reason)})

		case errors.Is(err, scheduling.ErrStartInPast):
			h.logger.Warn("POST /appointments - Start in the past: user_id=%d", userID)
			handlers.RespondUnprocessable(w, msgStartInPast)

		case errors.Is(err, scheduling.ErrNoticeTooShort):
			h.logger.Warn("POST /appointments - Notice too short: user_id=%d, staff_id=%d", userID, req.StaffID)
			handlers.RespondUnprocessable(w, msgNoticeTooShort)

		case errors.Is(err, scheduling.ErrBeyondHorizon):
			h.logger.Warn("POST /appointments - Beyond booking horizon: user_id=%d, staff_id=%d", userID, req.StaffID)
			handlers.RespondUnprocessable(w, msgBeyondHorizon)

		case errors.Is(err, proposeAppointment.ErrServiceNotOffered):
			h.logger.Warn("POST /appointments - Service not offered: staff_id=%d, service_id=%d", req.StaffID, req.ServiceID)
			handlers.RespondUnprocessable(w, msgServiceNotOffered)

		case errors.Is(err, proposeAppointment.ErrStaffNotFound):
			h.logger.Warn("POST /appointments - Staff not found: staff_id=%d", req.StaffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, proposeAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, proposeAppointment.ErrClientNotFound):
			h.logger.Warn("POST /appointments - Client not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgClientNotFound)

		case errors.Is(err, proposeAppointment.ErrClientBlocked):
			h.logger.Warn("POST /appointments - Client blocked: user_id=%d", userID)
			handlers.RespondForbidden(w, msgClientBlocked)

		case errors.Is(err, proposeAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments - Failed to propose appointment: user_id=%d, staff_id=%d, error=%v",
				userID, req.StaffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments - Appointment confirmed: appointment_id=%d, user_id=%d, staff_id=%d",
		result.ID, userID, result.StaffID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
