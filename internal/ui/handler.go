package ui

import (
	"context"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/coroadoradores/portal/internal/api"
	"github.com/coroadoradores/portal/internal/booking"
	"github.com/coroadoradores/portal/internal/config"
	"github.com/coroadoradores/portal/internal/httpserver/csrf"
	"github.com/coroadoradores/portal/internal/httpserver/errors"
	"github.com/coroadoradores/portal/internal/notify"
	"github.com/coroadoradores/portal/internal/scheduler"
	"github.com/coroadoradores/portal/internal/session"
)

// AuthAPI authenticates members against the remote auth backend.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*api.Credentials, error)
}

// SignupAPI registers new accounts against the remote signup backend.
type SignupAPI interface {
	Signup(ctx context.Context, reg api.Registration) (*api.User, error)
}

// AppointmentsAPI covers the mutating half of the appointments backend.
// Reads go through the scheduler so week loads stay coherent per viewer.
type AppointmentsAPI interface {
	Create(ctx context.Context, token string, draft booking.Draft) (*booking.Appointment, error)
	Delete(ctx context.Context, token, id string) error
}

// Handler serves server-rendered HTML pages.
type Handler struct {
	cfg          *config.Config
	log          *zap.Logger
	sessions     *session.Manager
	toasts       *notify.Center
	auth         AuthAPI
	signup       SignupAPI
	appointments AppointmentsAPI
	loader       *scheduler.Loader
	templates    map[string]*template.Template
}

func NewHandler(cfg *config.Config, log *zap.Logger, sessions *session.Manager, toasts *notify.Center,
	auth AuthAPI, signup SignupAPI, appointments AppointmentsAPI, loader *scheduler.Loader) *Handler {
	return &Handler{
		cfg:          cfg,
		log:          log,
		sessions:     sessions,
		toasts:       toasts,
		auth:         auth,
		signup:       signup,
		appointments: appointments,
		loader:       loader,
		templates:    templates,
	}
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "home.html", map[string]any{
		"Content": pageContent["home"],
	})
}

func (h *Handler) Rehearsals(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "ensayos.html", map[string]any{
		"Content": pageContent["ensayos"],
	})
}

func (h *Handler) Hiring(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "contrataciones.html", map[string]any{
		"Content": pageContent["contrataciones"],
	})
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "perfil.html", map[string]any{})
}

// notifyKey picks the queue identity for the current viewer: the session
// token when signed in, otherwise the per-browser CSRF token.
func (h *Handler) notifyKey(r *http.Request) string {
	if sess, ok := session.FromContext(r.Context()); ok {
		return sess.Token
	}
	return csrf.TokenFromContext(r.Context())
}

// anonKey always keys by the CSRF cookie, for messages that must survive a
// session teardown (logout, expiry).
func (h *Handler) anonKey(r *http.Request) string {
	return csrf.TokenFromContext(r.Context())
}

// render executes a page template with the common view data merged in.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["User"]; !ok {
		if sess, ok := session.FromContext(r.Context()); ok {
			data["User"] = sess.User
		} else {
			data["User"] = nil
		}
	}
	data["CSRFToken"] = csrf.TokenFromContext(r.Context())
	data["Toasts"] = h.toasts.Drain(h.notifyKey(r))

	tmpl, ok := h.templates[name]
	if !ok {
		errors.InternalError(h.log, w, r, fmt.Errorf("template not found"), fmt.Sprintf("template %q not found", name))
		return
	}

	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		errors.LogError(h.log, r, fmt.Sprintf("template render error for %q", name), err)
	}
}

// demoteIfExpired tears the session down when the backend rejected the
// bearer token, so the next page renders the anonymous variant instead of
// looping on a dead token. Returns true when it handled the request.
func (h *Handler) demoteIfExpired(w http.ResponseWriter, r *http.Request, err error) bool {
	if !api.IsUnauthorized(err) {
		return false
	}
	if sess, ok := session.FromContext(r.Context()); ok {
		h.loader.Forget(sess.Token)
	}
	h.sessions.Clear(w)
	h.toasts.Warning(h.anonKey(r), "Tu sesión ha expirado. Inicia sesión nuevamente.")
	http.Redirect(w, r, "/login", http.StatusFound)
	return true
}
