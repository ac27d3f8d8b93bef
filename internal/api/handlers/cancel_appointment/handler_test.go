package cancel_appointment

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
	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/scheduling"
	"github.com/m04kA/SMC-BarberBooking/internal/service/appointments"
	"github.com/m04kA/SMC-BarberBooking/internal/service/appointments/models"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
)

type fakeService struct {
	gotID  int64
	gotReq *models.CancelAppointmentRequest
	err    error
}

func (f *fakeService) Cancel(_ context.Context, id int64, req *models.CancelAppointmentRequest) (*models.AppointmentResponse, error) {
	f.gotID = id
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentResponse{ID: id, Status: string(domain.StatusCancelled)}, nil
}

func serve(svc *fakeService, id, body string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/appointments/"+id+"/cancel", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"appointmentId": id})
	if userID != 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandler_CancelWithReason(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "42", `{"cancellationReason":"imprevisto"}`, 10)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), svc.gotID)
	assert.Equal(t, int64(10), svc.gotReq.UserID)
	require.NotNil(t, svc.gotReq.CancellationReason)
	assert.Equal(t, "imprevisto", *svc.gotReq.CancellationReason)
	assert.Contains(t, rec.Body.String(), `"status":"cancelled"`)
}

func TestHandler_CancelWithoutBody(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "42", "", 10)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.gotReq.CancellationReason)
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("get: %w", appointments.ErrAppointmentNotFound), http.StatusNotFound},
		{"forbidden", appointments.ErrAccessDenied, http.StatusForbidden},
		{"already cancelled", &scheduling.InvalidTransitionError{
			AppointmentID: 42, From: domain.StatusCancelled, To: domain.StatusCancelled,
		}, http.StatusConflict},
		{"reason too long", fmt.Errorf("%w: reason", appointments.ErrInvalidInput), http.StatusBadRequest},
		{"internal", appointments.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, "42", "", 10)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandler_BadRequests(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, "abc", "", 10).Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, "42", `{"unknown":1}`, 10).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(&fakeService{}, "42", "", 0).Code)
}
