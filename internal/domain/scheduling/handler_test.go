package scheduling

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinicbook/clinicbook/internal/platform/apperr"
	"github.com/clinicbook/clinicbook/internal/platform/auth"
	"github.com/clinicbook/clinicbook/internal/platform/middleware"
	"github.com/clinicbook/clinicbook/internal/platform/validate"
	"github.com/clinicbook/clinicbook/pkg/form"
)

func newTestHandler(t *testing.T) (*Handler, *Service, *fakeDirectory, *echo.Echo) {
	t.Helper()
	svc, _, dir := newTestService()
	e := echo.New()
	e.Validator = validate.New()
	return NewHandler(svc), svc, dir, e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func asPrincipal(req *http.Request, p auth.Principal) *http.Request {
	return req.WithContext(auth.WithPrincipal(req.Context(), p))
}

func TestHandler_BookingForm(t *testing.T) {
	h, _, dir, e := newTestHandler(t)
	dr := dir.addDoctor("drSmith", nil)

	rec := httptest.NewRecorder()
	c := e.NewContext(asPrincipal(httptest.NewRequest(http.MethodGet, "/book", nil), patient("alice")), rec)
	if err := h.BookingForm(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var d form.Descriptor
	if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.Action != "/book" || len(d.Fields) != 4 {
		t.Fatalf("unexpected descriptor %+v", d)
	}
	sel := d.Fields[0]
	if sel.Name != "doctor_id" || len(sel.Choices) != 1 || sel.Choices[0].Value != dr.ID.String() {
		t.Errorf("unexpected doctor select %+v", sel)
	}
}

func TestHandler_BookingForm_NoDoctors(t *testing.T) {
	h, _, _, e := newTestHandler(t)
	c := e.NewContext(asPrincipal(httptest.NewRequest(http.MethodGet, "/book", nil), patient("alice")), httptest.NewRecorder())
	if err := h.BookingForm(c); !errors.Is(err, apperr.ErrNoDoctorsAvailable) {
		t.Errorf("expected no doctors available, got %v", err)
	}
}

func TestHandler_Book(t *testing.T) {
	h, _, dir, e := newTestHandler(t)
	dr := dir.addDoctor("drSmith", nil)

	body := `{"doctor_id":"` + dr.ID.String() + `","date":"2025-06-01","time":"10:00","description":"chest pain"}`
	rec := httptest.NewRecorder()
	c := e.NewContext(asPrincipal(jsonRequest(http.MethodPost, "/book", body), patient("alice")), rec)
	if err := h.Book(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	var a Appointment
	_ = json.Unmarshal(rec.Body.Bytes(), &a)
	if a.Status != StatusPending || a.Date != "2025-06-01" || a.Time != "10:00" {
		t.Errorf("unexpected appointment %+v", a)
	}
}

func TestHandler_UpdateStatus_Body(t *testing.T) {
	h, svc, dir, e := newTestHandler(t)
	dr := dir.addDoctor("drSmith", nil)
	a := mustBook(t, svc, patient("alice"), bookInput(dr, "2025-06-01", "10:00"))

	rec := httptest.NewRecorder()
	req := asPrincipal(jsonRequest(http.MethodPatch, "/", `{"status":"Confirmed"}`), doctorAccount("drSmith"))
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(a.ID.String())

	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got Appointment
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Status != "Confirmed" {
		t.Errorf("expected Confirmed, got %q", got.Status)
	}
}

func TestHandler_DeleteAppointment_InvalidID(t *testing.T) {
	h, _, _, e := newTestHandler(t)
	req := asPrincipal(httptest.NewRequest(http.MethodDelete, "/", nil), doctorAccount("drSmith"))
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("42")

	if err := h.DeleteAppointment(c); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

// -- Routing --

type routedEnv struct {
	e        *echo.Echo
	svc      *Service
	dir      *fakeDirectory
	sessions *auth.SessionManager
	actors   map[uuid.UUID]auth.Principal
}

func newRoutedServer(t *testing.T, legacy bool) *routedEnv {
	t.Helper()
	h, svc, dir, e := newTestHandler(t)
	sessions := auth.NewSessionManager([]byte(strings.Repeat("k", 32)), time.Hour)
	revoked := auth.NewMemoryRevocationStore()
	t.Cleanup(revoked.Close)

	r := &routedEnv{svc: svc, dir: dir, sessions: sessions, actors: make(map[uuid.UUID]auth.Principal)}
	lookup := func(_ context.Context, id uuid.UUID) (auth.Principal, bool, error) {
		p, ok := r.actors[id]
		return p, ok, nil
	}

	e.HTTPErrorHandler = middleware.HTTPErrorHandler(zerolog.Nop())
	e.Use(auth.SessionMiddleware(sessions, revoked, lookup, zerolog.Nop()))
	h.RegisterRoutes(e.Group(""), RouteOptions{LegacyGET: legacy})
	r.e = e
	return r
}

func (r *routedEnv) token(t *testing.T, p auth.Principal) string {
	t.Helper()
	r.actors[p.ID] = p
	s, err := r.sessions.Issue(p)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	return s.Token
}

func (r *routedEnv) serve(method, target, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = jsonRequest(method, target, body)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.e.ServeHTTP(rec, req)
	return rec
}

func errorCode(rec *httptest.ResponseRecorder) string {
	var body middleware.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return body.Error
}

func TestRoutes_Book(t *testing.T) {
	r := newRoutedServer(t, true)
	dr := r.dir.addDoctor("drSmith", nil)
	alice := r.token(t, patient("alice"))
	doc := r.token(t, doctorAccount("drSmith"))
	body := `{"doctor_id":"` + dr.ID.String() + `","date":"2025-06-01","time":"10:00","description":"chest pain"}`

	if rec := r.serve(http.MethodPost, "/book", "", body); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous booking: expected 401, got %d", rec.Code)
	}
	if rec := r.serve(http.MethodPost, "/book", doc, body); rec.Code != http.StatusForbidden {
		t.Errorf("doctor booking: expected 403, got %d", rec.Code)
	}
	if rec := r.serve(http.MethodPost, "/book", alice, body); rec.Code != http.StatusCreated {
		t.Fatalf("patient booking: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec := r.serve(http.MethodPost, "/book", r.token(t, patient("bob")), body)
	if rec.Code != http.StatusConflict || errorCode(rec) != "slot_taken" {
		t.Errorf("double booking: expected 409 slot_taken, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRoutes_Book_NoDoctors(t *testing.T) {
	r := newRoutedServer(t, true)
	rec := r.serve(http.MethodGet, "/book", r.token(t, patient("alice")), "")
	if rec.Code != http.StatusConflict || errorCode(rec) != "no_doctors_available" {
		t.Errorf("expected 409 no_doctors_available, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRoutes_StatusAndDelete(t *testing.T) {
	r := newRoutedServer(t, true)
	dr := r.dir.addDoctor("drSmith", nil)
	a := mustBook(t, r.svc, patient("alice"), bookInput(dr, "2025-06-01", "10:00"))
	doc := r.token(t, doctorAccount("drSmith"))
	alice := r.token(t, patient("alice"))

	if rec := r.serve(http.MethodGet, "/update_status/"+a.ID.String()+"/Confirmed", alice, ""); rec.Code != http.StatusForbidden {
		t.Errorf("patient status update: expected 403, got %d", rec.Code)
	}
	if rec := r.serve(http.MethodGet, "/update_status/"+a.ID.String()+"/Confirmed", doc, ""); rec.Code != http.StatusOK {
		t.Errorf("legacy status update: expected 200, got %d", rec.Code)
	}
	rec := r.serve(http.MethodPatch, "/appointments/"+a.ID.String()+"/status", doc, `{"status":"Completed"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("status update: expected 200, got %d", rec.Code)
	}
	if rec := r.serve(http.MethodPatch, "/appointments/"+uuid.NewString()+"/status", doc, `{"status":"Completed"}`); rec.Code != http.StatusNotFound {
		t.Errorf("unknown appointment: expected 404, got %d", rec.Code)
	}

	if rec := r.serve(http.MethodDelete, "/appointments/"+a.ID.String(), doc, ""); rec.Code != http.StatusOK {
		t.Errorf("delete: expected 200, got %d", rec.Code)
	}
	if rec := r.serve(http.MethodGet, "/delete_appointment/"+a.ID.String(), doc, ""); rec.Code != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", rec.Code)
	}
}

func TestRoutes_LegacyGETDisabled(t *testing.T) {
	r := newRoutedServer(t, false)
	doc := r.token(t, doctorAccount("drSmith"))
	rec := r.serve(http.MethodGet, "/delete_appointment/"+uuid.NewString(), doc, "")
	if rec.Code != http.StatusNotFound && rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected legacy route to be gone, got %d", rec.Code)
	}
	if errorCode(rec) == "" {
		t.Error("expected an error body")
	}
}

func TestRoutes_ViewAppointments(t *testing.T) {
	r := newRoutedServer(t, true)
	dr := r.dir.addDoctor("drSmith", nil)
	alice := patient("alice")
	mustBook(t, r.svc, alice, bookInput(dr, "2025-06-01", "10:00"))
	mustBook(t, r.svc, patient("bob"), bookInput(dr, "2025-06-01", "11:00"))

	var resp struct {
		Data  []AppointmentView `json:"data"`
		Total int               `json:"total"`
	}

	rec := r.serve(http.MethodGet, "/view_appointments", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Total != 2 {
		t.Errorf("anonymous: expected 2, got %d", resp.Total)
	}

	rec = r.serve(http.MethodGet, "/view_appointments", r.token(t, alice), "")
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Total != 1 || len(resp.Data) != 1 || resp.Data[0].PatientID != alice.ID {
		t.Errorf("patient: expected own appointment only, got %+v", resp)
	}

	rec = r.serve(http.MethodGet, "/view_appointments", r.token(t, doctorAccount("drNobody")), "")
	if !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Errorf("doctor without profile: expected an empty list, got %s", rec.Body.String())
	}
}

func TestHandler_ListAppointments_UsesContextPrincipal(t *testing.T) {
	h, svc, dir, e := newTestHandler(t)
	dr := dir.addDoctor("drSmith", nil)
	bob := patient("bob")
	mustBook(t, svc, bob, bookInput(dr, "2025-06-01", "10:00"))

	rec := httptest.NewRecorder()
	ctx := auth.WithPrincipal(context.Background(), patient("carol"))
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/view_appointments", nil).WithContext(ctx), rec)
	if err := h.ListAppointments(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"total":0`) {
		t.Errorf("expected carol to see nothing, got %s", rec.Body.String())
	}
}
