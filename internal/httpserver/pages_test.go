package httpserver

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Desorr/dropshipping-store/internal/telegram"
)

func newPagesEnv(t *testing.T) *echo.Echo {
	e := echo.New()
	renderer, err := NewRenderer("../../web/templates/*.html")
	require.NoError(t, err)
	e.Renderer = renderer
	return e
}

func TestPages_Render(t *testing.T) {
	h := &PageHandler{}
	e := newPagesEnv(t)

	tests := []struct {
		name    string
		path    string
		handler echo.HandlerFunc
		want    string
	}{
		{name: "index", path: "/", handler: h.Index, want: "Dropshipping Store"},
		{name: "about us", path: "/about_us", handler: h.AboutUs, want: "About us"},
		{name: "typography", path: "/typography", handler: h.Typography, want: "Typography"},
		{name: "contacts", path: "/contacts", handler: h.Contacts, want: "form"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			require.NoError(t, tt.handler(c))
			require.Equal(t, http.StatusOK, rec.Code)
			require.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestSubmitContacts_ForwardsToBot(t *testing.T) {
	var got url.Values
	bot := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		got = r.PostForm
		w.WriteHeader(http.StatusOK)
	}))
	defer bot.Close()

	tg := telegram.NewClient("token", "12345")
	tg.Base = bot.URL

	e := newPagesEnv(t)
	h := &PageHandler{Telegram: tg}

	form := url.Values{}
	form.Set("first-name", "Alice")
	form.Set("phone", "+100200300")
	form.Set("email", "alice@example.com")
	form.Set("message", "where is my parcel")

	req := httptest.NewRequest(http.MethodPost, "/contacts", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.SubmitContacts(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Thank you")

	require.Equal(t, "12345", got.Get("chat_id"))
	require.Contains(t, got.Get("text"), "Alice")
	require.Contains(t, got.Get("text"), "where is my parcel")
}

func TestSubmitContacts_BotFailureStillRenders(t *testing.T) {
	bot := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bot.Close()

	tg := telegram.NewClient("token", "12345")
	tg.Base = bot.URL

	e := newPagesEnv(t)
	h := &PageHandler{Telegram: tg}

	form := url.Values{}
	form.Set("first-name", "Bob")
	form.Set("email", "bob@example.com")
	form.Set("message", "hello")

	req := httptest.NewRequest(http.MethodPost, "/contacts", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.SubmitContacts(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Thank you")
}
