package ui

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/coroadoradores/portal/internal/api"
	"github.com/coroadoradores/portal/internal/session"
)

func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := session.FromContext(r.Context()); ok {
		http.Redirect(w, r, "/calendario", http.StatusFound)
		return
	}
	h.render(w, r, "login.html", map[string]any{
		"Email":  "",
		"Errors": map[string]string{},
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	fieldErrors := map[string]string{}
	if email == "" {
		fieldErrors["email"] = "El campo correo electrónico es requerido."
	}
	if password == "" {
		fieldErrors["password"] = "El campo contraseña es requerido."
	}
	if len(fieldErrors) > 0 {
		h.render(w, r, "login.html", map[string]any{"Email": email, "Errors": fieldErrors})
		return
	}

	creds, err := h.auth.Login(r.Context(), email, password)
	if err != nil {
		h.toasts.Error(h.anonKey(r), loginFailureMessage(err))
		h.render(w, r, "login.html", map[string]any{"Email": email, "Errors": fieldErrors})
		return
	}

	if err := h.sessions.Issue(w, creds.User, creds.Token); err != nil {
		h.toasts.Error(h.anonKey(r), "No se pudo iniciar la sesión. Intenta de nuevo.")
		h.render(w, r, "login.html", map[string]any{"Email": email, "Errors": fieldErrors})
		return
	}

	// The fresh session token is the viewer's queue from here on.
	h.toasts.Success(creds.Token, fmt.Sprintf("¡Bienvenido %s! Inicio de sesión exitoso.", creds.User.DisplayName()))
	http.Redirect(w, r, "/calendario", http.StatusFound)
}

func loginFailureMessage(err error) string {
	switch api.CodeOf(err) {
	case api.CodeUserNotFound:
		return "Usuario no encontrado. Verifica tu correo electrónico."
	case api.CodeBadCredentials:
		return "Credenciales inválidas. Verifica tu contraseña."
	}
	if api.KindOf(err) == api.KindTransport {
		return "Error de conexión. Verifica tu internet e intenta de nuevo."
	}
	return api.Message(err, "No se pudo iniciar sesión. Intenta de nuevo.")
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := session.FromContext(r.Context()); ok {
		h.loader.Forget(sess.Token)
	}
	h.sessions.Clear(w)
	h.toasts.Info(h.anonKey(r), "Sesión cerrada correctamente.")
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := session.FromContext(r.Context()); ok {
		http.Redirect(w, r, "/calendario", http.StatusFound)
		return
	}
	h.render(w, r, "registro.html", map[string]any{
		"Form":   api.Registration{},
		"Errors": map[string]string{},
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	form := api.Registration{
		FirstName:   strings.TrimSpace(r.PostFormValue("firstName")),
		LastName:    strings.TrimSpace(r.PostFormValue("lastName")),
		Email:       strings.TrimSpace(r.PostFormValue("email")),
		Phone:       strings.TrimSpace(r.PostFormValue("phone")),
		Password:    r.PostFormValue("password"),
		AcceptTerms: true,
	}
	confirm := r.PostFormValue("confirmPassword")

	fieldErrors := map[string]string{}
	if form.FirstName == "" {
		fieldErrors["firstName"] = "El campo nombre es requerido."
	}
	if form.LastName == "" {
		fieldErrors["lastName"] = "El campo apellidos es requerido."
	}
	if form.Email == "" {
		fieldErrors["email"] = "El campo correo electrónico es requerido."
	}
	if len(form.Password) < 6 {
		fieldErrors["password"] = "La contraseña debe tener al menos 6 caracteres."
	}
	if confirm != form.Password {
		fieldErrors["confirmPassword"] = "Las contraseñas no coinciden."
	}
	if len(fieldErrors) > 0 {
		h.render(w, r, "registro.html", map[string]any{"Form": form, "Errors": fieldErrors})
		return
	}

	user, err := h.signup.Signup(r.Context(), form)
	if err != nil {
		if api.CodeOf(err) == api.CodeEmailTaken {
			fieldErrors["email"] = "Ya existe una cuenta con este correo electrónico."
			h.toasts.Error(h.anonKey(r), "Ya existe una cuenta con este correo. Inicia sesión o usa otro correo.")
		} else if api.KindOf(err) == api.KindTransport {
			h.toasts.Error(h.anonKey(r), "Error de conexión. Verifica tu internet e intenta de nuevo.")
		} else {
			h.toasts.Error(h.anonKey(r), api.Message(err, "No se pudo crear la cuenta. Intenta de nuevo."))
		}
		h.render(w, r, "registro.html", map[string]any{"Form": form, "Errors": fieldErrors})
		return
	}

	h.toasts.Success(h.anonKey(r), fmt.Sprintf("¡Bienvenido %s! Tu cuenta ha sido creada. Ahora puedes iniciar sesión.", user.DisplayName()))
	http.Redirect(w, r, "/login", http.StatusFound)
}
