package update_shop_config

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/api/middleware"
	"github.com/m04kA/SMC-BarberBooking/internal/service/config"
	"github.com/m04kA/SMC-BarberBooking/internal/service/config/models"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
)

type fakeService struct {
	got *models.UpsertConfigRequest
	err error
}

func (f *fakeService) Upsert(_ context.Context, req *models.UpsertConfigRequest) (*models.ConfigResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.ConfigResponse{ID: 3, ShopID: req.ShopID, StaffID: req.StaffID, Level: "staff"}, nil
}

func serve(svc *fakeService, shopID, body string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/api/v1/shops/"+shopID+"/config", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"shopId": shopID})
	if userID != 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandler_Upsert(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "1", `{"staffId":7,"slotGranularityMinutes":15}`, 100)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, int64(1), svc.got.ShopID)
	assert.Equal(t, int64(100), svc.got.UserID)
	require.NotNil(t, svc.got.StaffID)
	assert.Equal(t, int64(7), *svc.got.StaffID)
	require.NotNil(t, svc.got.SlotGranularityMinutes)
	assert.Equal(t, 15, *svc.got.SlotGranularityMinutes)
	assert.Nil(t, svc.got.AdvanceBookingDays)
	assert.Contains(t, rec.Body.String(), `"level":"staff"`)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		shopID string
		body   string
		userID int64
		err    error
		want   int
	}{
		{"bad shop id", "x", `{}`, 100, nil, http.StatusBadRequest},
		{"no user", "1", `{}`, 0, nil, http.StatusUnauthorized},
		{"bad body", "1", `{"maxConcurrentBookings":2}`, 100, nil, http.StatusBadRequest},
		{"forbidden", "1", `{}`, 55, config.ErrAccessDenied, http.StatusForbidden},
		{"shop not found", "1", `{}`, 100, config.ErrShopNotFound, http.StatusNotFound},
		{"staff elsewhere", "1", `{"staffId":9}`, 100, config.ErrStaffNotFound, http.StatusNotFound},
		{"invalid data", "1", `{"slotGranularityMinutes":7}`, 100,
			fmt.Errorf("%w: granularity", config.ErrInvalidInput), http.StatusBadRequest},
		{"internal", "1", `{}`, 100, config.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.shopID, tt.body, tt.userID)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
