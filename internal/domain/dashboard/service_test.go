package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinicbook/clinicbook/internal/platform/middleware"
)

type counter struct {
	n   int
	err error
}

func (c counter) CountPatients(context.Context) (int, error)     { return c.n, c.err }
func (c counter) CountDoctors(context.Context) (int, error)      { return c.n, c.err }
func (c counter) CountAppointments(context.Context) (int, error) { return c.n, c.err }

func TestService_Counts(t *testing.T) {
	svc := NewService(counter{n: 3}, counter{n: 2}, counter{n: 7})

	got, err := svc.Counts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Counts{Patients: 3, Doctors: 2, Appointments: 7}
	if got != want {
		t.Errorf("Counts() = %+v, want %+v", got, want)
	}
}

func TestService_Counts_Error(t *testing.T) {
	boom := errors.New("db down")
	svc := NewService(counter{n: 3}, counter{err: boom}, counter{n: 7})

	got, err := svc.Counts(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
	if got != (Counts{}) {
		t.Errorf("expected zero counts on error, got %+v", got)
	}
}

func TestHandler_Counts(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = middleware.HTTPErrorHandler(zerolog.Nop())
	NewHandler(NewService(counter{n: 1}, counter{n: 1}, counter{})).RegisterRoutes(e.Group(""))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got Counts
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != (Counts{Patients: 1, Doctors: 1}) {
		t.Errorf("unexpected counts %+v", got)
	}
}

func TestHandler_Counts_Error(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = middleware.HTTPErrorHandler(zerolog.Nop())
	NewHandler(NewService(counter{err: errors.New("db down")}, counter{}, counter{})).RegisterRoutes(e.Group(""))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}
