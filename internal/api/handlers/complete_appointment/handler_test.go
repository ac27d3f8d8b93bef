package complete_appointment

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-BarberBooking/internal/api/middleware"
	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/scheduling"
	"github.com/m04kA/SMC-BarberBooking/internal/service/appointments"
	"github.com/m04kA/SMC-BarberBooking/internal/service/appointments/models"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
)

type fakeService struct {
	err error
}

func (f *fakeService) Complete(_ context.Context, id int64, _ int64) (*models.AppointmentResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentResponse{ID: id, Status: string(domain.StatusCompleted)}, nil
}

func serve(svc *fakeService, id string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/appointments/"+id+"/complete", nil)
	req = mux.SetURLVars(req, map[string]string{"appointmentId": id})
	if userID != 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		userID int64
		err    error
		want   int
	}{
		{"completed", "42", 100, nil, http.StatusOK},
		{"premature", "42", 100, fmt.Errorf("complete: %w", scheduling.ErrPrematureCompletion), http.StatusUnprocessableEntity},
		{"already cancelled", "42", 100, &scheduling.InvalidTransitionError{
			AppointmentID: 42, From: domain.StatusCancelled, To: domain.StatusCompleted,
		}, http.StatusConflict},
		{"client is not owner", "42", 10, appointments.ErrAccessDenied, http.StatusForbidden},
		{"not found", "42", 100, appointments.ErrAppointmentNotFound, http.StatusNotFound},
		{"internal", "42", 100, appointments.ErrInternal, http.StatusInternalServerError},
		{"bad id", "abc", 100, nil, http.StatusBadRequest},
		{"no user", "42", 0, nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.id, tt.userID)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
