package get_shop_config

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/service/config"
)

const (
	msgInvalidShopID = "некорректный ID салона"
	msgInvalidParams = "некорректные параметры запроса"
	msgShopNotFound  = "салон не найден"
	msgStaffNotFound = "мастер не найден в этом салоне"
)

type Handler struct {
	service ConfigService
	logger  Logger
}

func NewHandler(service ConfigService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/shops/{shopId}/config
// Query params: staffId (опционально)
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shopID, err := strconv.ParseInt(mux.Vars(r)["shopId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /shops/{id}/config - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	serviceReq, err := ToServiceRequest(shopID, r.URL.Query().Get("staffId"))
	if err != nil {
		h.logger.Warn("GET /shops/{id}/config - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	// Без сохраненных конфигураций сервис вернет значения по умолчанию
	result, err := h.service.GetEffective(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, config.ErrShopNotFound):
			h.logger.Warn("GET /shops/{id}/config - Shop not found: shop_id=%d", shopID)
			handlers.RespondNotFound(w, msgShopNotFound)

		case errors.Is(err, config.ErrStaffNotFound):
			h.logger.Warn("GET /shops/{id}/config - Staff not found: shop_id=%d, staff_id=%v", shopID, serviceReq.StaffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		default:
			h.logger.Error("GET /shops/{id}/config - Failed to get config: shop_id=%d, error=%v", shopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /shops/{id}/config - Config retrieved successfully: shop_id=%d, level=%s", shopID, result.Level)
	handlers.RespondJSON(w, http.StatusOK, result)
}
