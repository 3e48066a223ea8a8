package contact

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicbook/clinicbook/internal/platform/apperr"
	"github.com/clinicbook/clinicbook/pkg/form"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts GET and POST /contact. throttle, if given, guards POST.
func (h *Handler) RegisterRoutes(g *echo.Group, throttle ...echo.MiddlewareFunc) {
	g.GET("/contact", h.Form)
	g.POST("/contact", h.Submit, throttle...)
}

func (h *Handler) Form(c echo.Context) error {
	return c.JSON(http.StatusOK, form.New("/contact",
		form.Text("name", true, MaxNameLen),
		form.Email("email"),
		form.TextArea("message"),
	))
}

// Submit binds without validate.Bind: the service trims the fields and then
// validates them, so padded input such as " ann@example.com " is accepted.
func (h *Handler) Submit(c echo.Context) error {
	var in SubmitInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("malformed request")
	}
	m, err := h.svc.Submit(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}
