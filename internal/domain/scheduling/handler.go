package scheduling

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicbook/clinicbook/internal/platform/apperr"
	"github.com/clinicbook/clinicbook/internal/platform/auth"
	"github.com/clinicbook/clinicbook/internal/platform/validate"
	"github.com/clinicbook/clinicbook/pkg/form"
	"github.com/clinicbook/clinicbook/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RouteOptions tune how the scheduling routes are mounted.
type RouteOptions struct {
	// LegacyGET keeps GET /delete_appointment/:id and GET /update_status/:id/:status.
	LegacyGET bool
}

func (h *Handler) RegisterRoutes(g *echo.Group, opts RouteOptions) {
	g.GET("/view_appointments", h.ListAppointments)

	patient := auth.RequireRole(auth.RolePatient)
	g.GET("/book", h.BookingForm, patient)
	g.POST("/book", h.Book, patient)

	doctor := auth.RequireRole(auth.RoleDoctor)
	g.DELETE("/appointments/:id", h.DeleteAppointment, doctor)
	g.PATCH("/appointments/:id/status", h.UpdateStatus, doctor)
	if opts.LegacyGET {
		g.GET("/delete_appointment/:id", h.DeleteAppointment, doctor)
		g.GET("/update_status/:id/:status", h.UpdateStatus, doctor)
	}
}

// -- Booking --

func (h *Handler) BookingForm(c echo.Context) error {
	ctx := c.Request().Context()
	choices, err := h.svc.BookingForm(ctx, auth.PrincipalFromContext(ctx))
	if err != nil {
		return err
	}
	opts := make([]form.Choice, 0, len(choices))
	for _, d := range choices {
		opts = append(opts, form.Choice{Value: d.ID.String(), Label: d.Name + " (" + d.Specialization + ")"})
	}
	return c.JSON(http.StatusOK, form.New("/book",
		form.Select("doctor_id", opts...),
		form.Date("date"),
		form.Time("time"),
		form.TextArea("description"),
	))
}

func (h *Handler) Book(c echo.Context) error {
	var in BookInput
	if err := validate.Bind(c, &in); err != nil {
		return err
	}
	ctx := c.Request().Context()
	a, err := h.svc.Book(ctx, auth.PrincipalFromContext(ctx), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

// -- Administration --

func (h *Handler) DeleteAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.NotFound("appointment")
	}
	ctx := c.Request().Context()
	if err := h.svc.DeleteAppointment(ctx, auth.PrincipalFromContext(ctx), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "appointment deleted", "id": id.String()})
}

// UpdateStatus takes the new status from the path on the legacy route and
// from the body otherwise.
func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.NotFound("appointment")
	}
	status := c.Param("status")
	if status == "" {
		var in StatusInput
		if err := validate.Bind(c, &in); err != nil {
			return err
		}
		status = in.Status
	}
	ctx := c.Request().Context()
	a, err := h.svc.UpdateStatus(ctx, auth.PrincipalFromContext(ctx), id, status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// -- Listing --

func (h *Handler) ListAppointments(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()
	items, total, err := h.svc.ListAppointments(ctx, auth.PrincipalFromContext(ctx), pg)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*AppointmentView{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}
