package main

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BarberBooking/internal/api/middleware"
)

// apiHandlers обработчики HTTP API
type apiHandlers struct {
	proposeAppointment    http.HandlerFunc
	getAvailableSlots     http.HandlerFunc
	getAppointment        http.HandlerFunc
	cancelAppointment     http.HandlerFunc
	completeAppointment   http.HandlerFunc
	getClientAppointments http.HandlerFunc
	getStaffAppointments  http.HandlerFunc
	getStaffAgenda        http.HandlerFunc
	deleteStaff           http.HandlerFunc
	getShopConfig         http.HandlerFunc
	getShopConfigs        http.HandlerFunc
	updateShopConfig      http.HandlerFunc
	deleteShopConfig      http.HandlerFunc
}

// registerRoutes регистрирует маршруты /api/v1.
// limit оборачивает публичные маршруты, а на защищенных стоит после Auth,
// чтобы лимит считался по пользователю. nil - без ограничения.
func registerRoutes(r *mux.Router, h apiHandlers, limit mux.MiddlewareFunc) {
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты мастера на дату
	api.Handle("/staff/{staffId}/available-slots", limit(h.getAvailableSlots)).Methods(http.MethodGet)

	// Расписание мастера в формате iCalendar
	api.Handle("/staff/{staffId}/agenda.ics", limit(h.getStaffAgenda)).Methods(http.MethodGet)

	// Действующая конфигурация бронирования
	api.Handle("/shops/{shopId}/config", limit(h.getShopConfig)).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)
	protected.Use(limit)

	// --- Записи ---
	protected.HandleFunc("/appointments", h.proposeAppointment).Methods(http.MethodPost)
	protected.HandleFunc("/appointments", h.getClientAppointments).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}", h.getAppointment).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", h.cancelAppointment).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/complete", h.completeAppointment).Methods(http.MethodPatch)

	// --- Управление салоном (для владельца) ---
	protected.HandleFunc("/staff/{staffId}/appointments", h.getStaffAppointments).Methods(http.MethodGet)
	protected.HandleFunc("/staff/{staffId}", h.deleteStaff).Methods(http.MethodDelete)
	protected.HandleFunc("/shops/{shopId}/config", h.updateShopConfig).Methods(http.MethodPut)
	protected.HandleFunc("/shops/{shopId}/config", h.deleteShopConfig).Methods(http.MethodDelete)
	protected.HandleFunc("/shops/{shopId}/configs", h.getShopConfigs).Methods(http.MethodGet)
}
