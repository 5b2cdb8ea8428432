package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Desorr/dropshipping-store/internal/telegram"
	"github.com/Desorr/dropshipping-store/internal/transport"
)

type PageHandler struct {
	Telegram *telegram.Client
}

func (h *PageHandler) Index(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", nil)
}

func (h *PageHandler) AboutUs(c echo.Context) error {
	return c.Render(http.StatusOK, "about-us.html", nil)
}

func (h *PageHandler) Typography(c echo.Context) error {
	return c.Render(http.StatusOK, "typography.html", nil)
}

func (h *PageHandler) Contacts(c echo.Context) error {
	return c.Render(http.StatusOK, "contacts.html", map[string]any{})
}

// SubmitContacts forwards the form to the bot chat. Delivery is best-effort:
// failures are logged and the page renders normally either way.
func (h *PageHandler) SubmitContacts(c echo.Context) error {
	var form transport.ContactForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	text := fmt.Sprintf(
		"Help needed:\n\nName: %s\nPhone: %s\nE-mail: %s\nMessage: %s",
		form.Name, form.Phone, form.Email, form.Message,
	)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()
	if err := h.Telegram.SendMessage(ctx, text); err != nil {
		c.Logger().Errorf("Telegram send error: %v", err)
	}

	return c.Render(http.StatusOK, "contacts.html", map[string]any{"Submitted": true})
}
