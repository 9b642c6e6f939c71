package auth

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

type admins map[string]string

func (a admins) AdminPassword(_ context.Context, email string) (string, error) {
	if email == "broken@x.y" {
		return "", errors.New("connection refused")
	}
	pw, ok := a[email]
	if !ok {
		return "", sql.ErrNoRows
	}
	return pw, nil
}

func newTestGate(t *testing.T) *Gate {
	t.Helper()
	hash, err := HashSecret("hashed-pass")
	if err != nil {
		t.Fatal(err)
	}
	g, err := NewGate(admins{
		"plain@x.y":  "plain-pass",
		"hashed@x.y": hash,
	}, Options{Secret: "0123456789abcdef0123456789abcdef"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func login(g *Gate, email, pass string) (*httptest.ResponseRecorder, bool) {
	form := url.Values{"email": {email}, "password": {pass}}
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	w := httptest.NewRecorder()
	return w, g.Login(w, r, email, pass)
}

func TestLogin(t *testing.T) {
	g := newTestGate(t)

	tests := []struct {
		name  string
		email string
		pass  string
		want  bool
	}{
		{"plaintext row", "plain@x.y", "plain-pass", true},
		{"bcrypt row", "hashed@x.y", "hashed-pass", true},
		{"wrong password", "plain@x.y", "nope", false},
		{"wrong bcrypt password", "hashed@x.y", "nope", false},
		{"unknown email", "who@x.y", "plain-pass", false},
		{"store failure", "broken@x.y", "plain-pass", false},
		{"email is exact", "PLAIN@x.y", "plain-pass", false},
		{"empty secret", "plain@x.y", "", false},
		{"email is not trimmed", " plain@x.y ", "plain-pass", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, ok := login(g, tc.email, tc.pass)
			if ok != tc.want {
				t.Fatalf("Login = %v, want %v", ok, tc.want)
			}
			hasCookie := len(w.Result().Cookies()) > 0
			if hasCookie != tc.want {
				t.Errorf("session cookie set = %v", hasCookie)
			}
		})
	}
}

func TestSessionLifecycle(t *testing.T) {
	g := newTestGate(t)
	protected := g.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	r := httptest.NewRequest(http.MethodGet, "/admin", nil)
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, r)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
		t.Fatalf("anonymous: %d %s", w.Code, w.Header().Get("Location"))
	}

	lw, ok := login(g, "plain@x.y", "plain-pass")
	if !ok {
		t.Fatal("login failed")
	}
	cookies := lw.Result().Cookies()

	r = httptest.NewRequest(http.MethodGet, "/admin", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w = httptest.NewRecorder()
	protected.ServeHTTP(w, r)
	if w.Code != http.StatusNoContent {
		t.Fatalf("authenticated: %d", w.Code)
	}
	if g.Email(r) != "plain@x.y" {
		t.Errorf("email = %q", g.Email(r))
	}

	w = httptest.NewRecorder()
	g.Logout(w, r)
	out := w.Result().Cookies()
	if len(out) == 0 || out[0].MaxAge >= 0 {
		t.Errorf("logout should expire the cookie: %+v", out)
	}
}

func TestFlashes(t *testing.T) {
	g := newTestGate(t)

	r := httptest.NewRequest(http.MethodGet, "/admin", nil)
	w := httptest.NewRecorder()
	g.AddFlash(w, r, "Movie saved")

	r = httptest.NewRequest(http.MethodGet, "/admin", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	got := g.Flashes(httptest.NewRecorder(), r)
	if len(got) != 1 || got[0] != "Movie saved" {
		t.Errorf("flashes = %v", got)
	}
}

func TestNewGateRequiresSecret(t *testing.T) {
	if _, err := NewGate(admins{}, Options{Secret: "short"}, nil); err == nil {
		t.Error("short secret accepted")
	}
	if !IsHashed("$2a$10$abc") || IsHashed("plain") {
		t.Error("IsHashed")
	}
}
