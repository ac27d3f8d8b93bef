package get_shop_configs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/api/middleware"
	"github.com/m04kA/SMC-BarberBooking/internal/service/config"
	"github.com/m04kA/SMC-BarberBooking/internal/service/config/models"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
	"github.com/m04kA/SMC-BarberBooking/pkg/ptr"
)

type fakeService struct {
	err error
}

func (f *fakeService) GetAllByShop(_ context.Context, shopID int64, _ int64) (*models.ConfigListResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.ConfigListResponse{Configs: []models.ConfigResponse{
		{ShopID: shopID, Level: "shop", SlotGranularityMinutes: 15},
		{ShopID: shopID, StaffID: ptr.Ptr(int64(7)), Level: "staff", SlotGranularityMinutes: 30},
	}}, nil
}

func serve(svc *fakeService, shopID string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/shops/"+shopID+"/configs", nil)
	req = mux.SetURLVars(req, map[string]string{"shopId": shopID})
	if userID != 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandler_List(t *testing.T) {
	rec := serve(&fakeService{}, "1", 100)

	require.Equal(t, http.StatusOK, rec.Code)

	var body []models.ConfigResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "shop", body[0].Level)
	assert.Equal(t, "staff", body[1].Level)
	require.NotNil(t, body[1].StaffID)
	assert.Equal(t, int64(7), *body[1].StaffID)
}

func TestHandler_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, "x", 100).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(&fakeService{}, "1", 0).Code)
	assert.Equal(t, http.StatusNotFound, serve(&fakeService{err: config.ErrShopNotFound}, "1", 100).Code)
	assert.Equal(t, http.StatusForbidden, serve(&fakeService{err: config.ErrAccessDenied}, "1", 55).Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&fakeService{err: config.ErrInternal}, "1", 100).Code)
}
