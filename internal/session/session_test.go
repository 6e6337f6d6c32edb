package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coroadoradores/portal/internal/api"
	"github.com/coroadoradores/portal/internal/config"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	cfg := &config.Config{BaseURL: "http://localhost:8080"}
	cfg.Session.Secret = "0123456789abcdef0123456789abcdef"
	return NewManager(cfg)
}

func requestWithCookies(rec *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/calendario", nil)
	for _, c := range rec.Result().Cookies() {
		if c.Value != "" {
			r.AddCookie(c)
		}
	}
	return r
}

func TestIssueCurrentRoundtrip(t *testing.T) {
	m := testManager(t)
	user := api.User{ID: "u1", Email: "maria@example.com", FirstName: "María"}

	rec := httptest.NewRecorder()
	if err := m.Issue(rec, user, "tok-123"); err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("got %d cookies, want 2", len(cookies))
	}
	for _, c := range cookies {
		if !c.HttpOnly {
			t.Errorf("cookie %s is not HttpOnly", c.Name)
		}
		if c.Secure {
			t.Errorf("cookie %s marked secure on an http base url", c.Name)
		}
	}

	sess, ok := m.Current(requestWithCookies(rec))
	if !ok {
		t.Fatal("session did not hydrate")
	}
	if sess.Token != "tok-123" {
		t.Errorf("token = %q", sess.Token)
	}
	if sess.User.Email != user.Email || sess.User.FirstName != user.FirstName {
		t.Errorf("user = %+v", sess.User)
	}
}

func TestCurrentRequiresBothCookies(t *testing.T) {
	m := testManager(t)

	rec := httptest.NewRecorder()
	if err := m.Issue(rec, api.User{Email: "x@example.com"}, "tok"); err != nil {
		t.Fatal(err)
	}

	for _, drop := range []string{userCookieName, tokenCookieName} {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, c := range rec.Result().Cookies() {
			if c.Name != drop {
				r.AddCookie(c)
			}
		}
		if _, ok := m.Current(r); ok {
			t.Errorf("session hydrated without %s", drop)
		}
	}
}

func TestCurrentRejectsTamperedCookie(t *testing.T) {
	m := testManager(t)

	rec := httptest.NewRecorder()
	if err := m.Issue(rec, api.User{Email: "x@example.com"}, "tok"); err != nil {
		t.Fatal(err)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		if c.Name == tokenCookieName {
			c.Value = c.Value + "tampered"
		}
		r.AddCookie(c)
	}
	if _, ok := m.Current(r); ok {
		t.Error("tampered token cookie accepted")
	}
}

func TestClearIsIdempotent(t *testing.T) {
	m := testManager(t)

	rec := httptest.NewRecorder()
	m.Clear(rec)
	m.Clear(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 4 {
		t.Fatalf("got %d cookies, want 4 expirations", len(cookies))
	}
	for _, c := range cookies {
		if c.Value != "" {
			t.Errorf("cookie %s not emptied", c.Name)
		}
		if c.MaxAge > 0 {
			t.Errorf("cookie %s not expired", c.Name)
		}
	}
}

func TestRequireMiddleware(t *testing.T) {
	m := testManager(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); !ok {
			t.Error("protected handler ran without session in context")
		}
		w.WriteHeader(http.StatusOK)
	})

	t.Run("anonymous html request redirects to login", func(t *testing.T) {
		rec := httptest.NewRecorder()
		m.Require(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/calendario", nil))
		if rec.Code != http.StatusFound {
			t.Fatalf("status = %d", rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/login" {
			t.Errorf("location = %q", loc)
		}
	})

	t.Run("anonymous api request gets 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		m.Require(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/calendario/semana", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("authenticated request passes through", func(t *testing.T) {
		issued := httptest.NewRecorder()
		if err := m.Issue(issued, api.User{Email: "x@example.com"}, "tok"); err != nil {
			t.Fatal(err)
		}
		rec := httptest.NewRecorder()
		m.Require(next).ServeHTTP(rec, requestWithCookies(issued))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}
