package get_staff_agenda

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/scheduling"
	"github.com/m04kA/SMC-BarberBooking/internal/service/agenda"
)

const (
	msgInvalidStaffID = "некорректный ID мастера"
	msgInvalidFrom    = "некорректная дата начала, ожидается формат YYYY-MM-DD"
	msgInvalidDays    = "некорректное количество дней"
	msgNotFound       = "мастер не найден"

	defaultDays = 7

	contentTypeCalendar = "text/calendar; charset=utf-8"
)

type Handler struct {
	service  AgendaService
	location *time.Location
	now      func() time.Time
	logger   Logger
}

func NewHandler(service AgendaService, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		service:  service,
		location: location,
		now:      time.Now,
		logger:   logger,
	}
}

// Handle GET /api/v1/staff/{staffId}/agenda.ics
// Query params: from (по умолчанию сегодня), days (по умолчанию 7)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, err := strconv.ParseInt(mux.Vars(r)["staffId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /staff/{id}/agenda.ics - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	query := r.URL.Query()

	now := h.now().In(h.location)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.location)
	if fromStr := query.Get("from"); fromStr != "" {
		from, err = time.ParseInLocation(domain.DateFormat, fromStr, h.location)
		if err != nil {
			h.logger.Warn("GET /staff/{id}/agenda.ics - Invalid from: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFrom)
			return
		}
	}

	days := defaultDays
	if daysStr := query.Get("days"); daysStr != "" {
		days, err = strconv.Atoi(daysStr)
		if err != nil {
			h.logger.Warn("GET /staff/{id}/agenda.ics - Invalid days: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDays)
			return
		}
	}

	feed, err := h.service.ExportICS(r.Context(), staffID, from, days)
	if err != nil {
		switch {
		case errors.Is(err, scheduling.ErrNotFound):
			h.logger.Warn("GET /staff/{id}/agenda.ics - Staff not found: staff_id=%d", staffID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, agenda.ErrInvalidInput):
			h.logger.Warn("GET /staff/{id}/agenda.ics - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDays)

		default:
			h.logger.Error("GET /staff/{id}/agenda.ics - Failed to export agenda: staff_id=%d, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /staff/{id}/agenda.ics - Agenda exported: staff_id=%d, from=%s, days=%d",
		staffID, from.Format(domain.DateFormat), days)

	w.Header().Set("Content-Type", contentTypeCalendar)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(feed))
}
