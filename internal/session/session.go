package session

import (
	"crypto/sha256"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/securecookie"

	"github.com/coroadoradores/portal/internal/api"
	"github.com/coroadoradores/portal/internal/config"
)

// The session is persisted as two separate cookies under fixed names, the
// same split the backends expect: the profile and the bearer token. Both
// must decode for a session to hydrate, and both are cleared together.
const (
	userCookieName  = "coro_user"
	tokenCookieName = "coro_token"
)

const maxAge = 7 * 24 * time.Hour

// Session is the client-held proof of authentication.
type Session struct {
	User  api.User
	Token string
}

// Manager issues, reads, and clears browser sessions.
type Manager struct {
	codec  *securecookie.SecureCookie
	secure bool
}

func NewManager(cfg *config.Config) *Manager {
	hash := sha256.Sum256([]byte(cfg.Session.Secret))
	sc := securecookie.New(hash[:], hash[:])
	sc.MaxAge(int(maxAge.Seconds()))
	sc.SetSerializer(securecookie.JSONEncoder{})

	secure := true
	if base, err := url.Parse(cfg.BaseURL); err == nil && base.Scheme != "https" {
		secure = false
	}

	return &Manager{codec: sc, secure: secure}
}

// Issue writes both session cookies for a freshly authenticated user.
func (m *Manager) Issue(w http.ResponseWriter, user api.User, token string) error {
	expires := time.Now().Add(maxAge)

	encodedUser, err := m.codec.Encode(userCookieName, user)
	if err != nil {
		return err
	}
	encodedToken, err := m.codec.Encode(tokenCookieName, token)
	if err != nil {
		return err
	}

	m.setCookie(w, userCookieName, encodedUser, expires)
	m.setCookie(w, tokenCookieName, encodedToken, expires)
	return nil
}

// Clear expires both session cookies. Unconditional and idempotent:
// clearing an already-anonymous response is a no-op with the same outcome.
func (m *Manager) Clear(w http.ResponseWriter) {
	m.setCookie(w, userCookieName, "", time.Unix(0, 0))
	m.setCookie(w, tokenCookieName, "", time.Unix(0, 0))
}

// Current hydrates the session from the request cookies. Both entries must
// be present and decodable; the token is trusted without re-validation
// until a downstream call rejects it.
func (m *Manager) Current(r *http.Request) (Session, bool) {
	userCookie, err := r.Cookie(userCookieName)
	if err != nil {
		return Session{}, false
	}
	tokenCookie, err := r.Cookie(tokenCookieName)
	if err != nil {
		return Session{}, false
	}

	var user api.User
	if err := m.codec.Decode(userCookieName, userCookie.Value, &user); err != nil {
		return Session{}, false
	}
	var token string
	if err := m.codec.Decode(tokenCookieName, tokenCookie.Value, &token); err != nil || token == "" {
		return Session{}, false
	}

	return Session{User: user, Token: token}, true
}

// Require ensures a session exists before the wrapped handler runs. HTML
// requests are redirected to the login page; API requests get a plain 401.
func (m *Manager) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := m.Current(r)
		if !ok {
			if strings.HasPrefix(r.URL.Path, "/api/") {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}

// Attach hydrates the session when present without requiring one, for
// pages that render both anonymous and authenticated variants.
func (m *Manager) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sess, ok := m.Current(r); ok {
			r = r.WithContext(WithSession(r.Context(), sess))
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Manager) setCookie(w http.ResponseWriter, name, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
