package get_shop_config

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/service/config"
	"github.com/m04kA/SMC-BarberBooking/internal/service/config/models"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
)

type fakeService struct {
	got *models.GetConfigRequest
	err error
}

func (f *fakeService) GetEffective(_ context.Context, req *models.GetConfigRequest) (*models.ConfigResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.ConfigResponse{ShopID: req.ShopID, Level: "default", SlotGranularityMinutes: 30}, nil
}

func serve(svc *fakeService, shopID, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/shops/"+shopID+"/config?"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"shopId": shopID})
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandler_ShopLevel(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.got.StaffID)
	assert.Contains(t, rec.Body.String(), `"level":"default"`)
	assert.NotContains(t, rec.Body.String(), "createdAt")
}

func TestHandler_StaffLevel(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "1", "staffId=7")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got.StaffID)
	assert.Equal(t, int64(7), *svc.got.StaffID)
}

func TestHandler_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, "x", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, "1", "staffId=abc").Code)
	assert.Equal(t, http.StatusNotFound, serve(&fakeService{err: config.ErrShopNotFound}, "1", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(&fakeService{err: config.ErrStaffNotFound}, "1", "staffId=9").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&fakeService{err: config.ErrInternal}, "1", "").Code)
}
