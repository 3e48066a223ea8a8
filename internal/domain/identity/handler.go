package identity

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicbook/clinicbook/internal/platform/apperr"
	"github.com/clinicbook/clinicbook/internal/platform/auth"
	"github.com/clinicbook/clinicbook/internal/platform/validate"
	"github.com/clinicbook/clinicbook/pkg/form"
	"github.com/clinicbook/clinicbook/pkg/pagination"
)

type Handler struct {
	svc          *Service
	cookieSecure bool
}

func NewHandler(svc *Service, cookieSecure bool) *Handler {
	return &Handler{svc: svc, cookieSecure: cookieSecure}
}

// RouteOptions tune how the identity routes are mounted.
type RouteOptions struct {
	// Throttle guards the credential endpoints (POST /register, POST /login).
	Throttle echo.MiddlewareFunc
	// LegacyGET keeps the GET variants of the delete endpoints.
	LegacyGET bool
}

func (h *Handler) RegisterRoutes(g *echo.Group, opts RouteOptions) {
	var throttle []echo.MiddlewareFunc
	if opts.Throttle != nil {
		throttle = append(throttle, opts.Throttle)
	}

	g.GET("/register", h.RegisterForm)
	g.POST("/register", h.Register, throttle...)
	g.GET("/login", h.LoginForm)
	g.POST("/login", h.Login, throttle...)
	g.GET("/view_patients", h.ListPatients)
	g.GET("/view_doctors", h.ListDoctors)

	session := auth.RequireSession()
	g.GET("/logout", h.Logout, session)
	g.POST("/logout", h.Logout, session)

	doctor := auth.RequireRole(auth.RoleDoctor)
	g.GET("/add_doctor", h.AddDoctorForm, doctor)
	g.POST("/add_doctor", h.AddDoctor, doctor)
	g.DELETE("/patients/:id", h.DeletePatient, doctor)
	g.DELETE("/doctors/:id", h.DeleteDoctor, doctor)
	if opts.LegacyGET {
		g.GET("/delete_patient/:id", h.DeletePatient, doctor)
		g.GET("/delete_doctor/:id", h.DeleteDoctor, doctor)
	}
}

// -- Forms --

var roleChoices = []form.Choice{
	{Value: auth.RolePatient, Label: "Patient"},
	{Value: auth.RoleDoctor, Label: "Doctor"},
}

func (h *Handler) RegisterForm(c echo.Context) error {
	return c.JSON(http.StatusOK, form.New("/register",
		form.Text("username", true, MaxHandleLen),
		form.Password("password"),
		form.Select("role", roleChoices...),
		form.Text("specialization", false, MaxNameLen),
	))
}

func (h *Handler) LoginForm(c echo.Context) error {
	return c.JSON(http.StatusOK, form.New("/login",
		form.Text("username", true, MaxHandleLen),
		form.Password("password"),
	))
}

func (h *Handler) AddDoctorForm(c echo.Context) error {
	return c.JSON(http.StatusOK, form.New("/add_doctor",
		form.Text("name", true, MaxNameLen),
		form.Text("specialization", true, MaxNameLen),
		form.Text("phone", false, MaxPhoneLen),
	))
}

// -- Registration & Sessions --

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := validate.Bind(c, &in); err != nil {
		return err
	}
	u, err := h.svc.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, u)
}

// LoginResponse carries the session token for API clients; browsers use the cookie.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

func (h *Handler) Login(c echo.Context) error {
	var in LoginInput
	if err := validate.Bind(c, &in); err != nil {
		return err
	}
	u, sess, err := h.svc.Login(c.Request().Context(), in)
	if err != nil {
		return err
	}
	auth.SetSessionCookie(c, sess, h.cookieSecure)
	return c.JSON(http.StatusOK, LoginResponse{Token: sess.Token, ExpiresAt: sess.ExpiresAt, User: u})
}

func (h *Handler) Logout(c echo.Context) error {
	if err := h.svc.Logout(c.Request().Context(), auth.ClaimsFromContext(c.Request().Context())); err != nil {
		return err
	}
	auth.ClearSessionCookie(c, h.cookieSecure)
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

// -- Doctor profiles --

func (h *Handler) AddDoctor(c echo.Context) error {
	var in AddDoctorInput
	if err := validate.Bind(c, &in); err != nil {
		return err
	}
	ctx := c.Request().Context()
	d, err := h.svc.AddDoctor(ctx, auth.PrincipalFromContext(ctx), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, d)
}

// -- Administrative deletes --

func (h *Handler) DeletePatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.NotFound("patient")
	}
	ctx := c.Request().Context()
	if err := h.svc.DeletePatient(ctx, auth.PrincipalFromContext(ctx), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "patient deleted", "id": id.String()})
}

func (h *Handler) DeleteDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.NotFound("doctor")
	}
	ctx := c.Request().Context()
	if err := h.svc.DeleteDoctor(ctx, auth.PrincipalFromContext(ctx), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "doctor deleted", "id": id.String()})
}

// -- Listing --

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	users, total, err := h.svc.ListPatients(c.Request().Context(), pg)
	if err != nil {
		return err
	}
	if users == nil {
		users = []*User{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(users, total, pg))
}

func (h *Handler) ListDoctors(c echo.Context) error {
	pg := pagination.FromContext(c)
	doctors, total, err := h.svc.ListDoctors(c.Request().Context(), pg)
	if err != nil {
		return err
	}
	if doctors == nil {
		doctors = []*Doctor{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(doctors, total, pg))
}
