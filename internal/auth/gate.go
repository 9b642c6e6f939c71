// Package auth gates the admin dashboard behind an email and password
// checked against the admins table, remembered in a signed session cookie.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"

	"github.com/cinezuva/cinezuva/internal/logger"
)

const (
	SessionName = "cinezuva_session"

	keyAdmin = "admin"
	keyEmail = "email"
)

// AdminStore looks up the stored secret of an admin by exact email.
type AdminStore interface {
	AdminPassword(ctx context.Context, email string) (string, error)
}

type Gate struct {
	admins   AdminStore
	sessions *sessions.CookieStore
	log      *slog.Logger
}

type Options struct {
	Secret string
	// MaxAge is the session lifetime in seconds.
	MaxAge int
}

func NewGate(admins AdminStore, opts Options, log *slog.Logger) (*Gate, error) {
	if admins == nil {
		return nil, errors.New("admin store is required")
	}
	if len(opts.Secret) < 16 {
		return nil, errors.New("session secret must be at least 16 bytes")
	}
	if log == nil {
		log = slog.Default()
	}
	cs := sessions.NewCookieStore([]byte(opts.Secret))
	cs.Options = cookieOptions(opts.MaxAge)
	return &Gate{admins: admins, sessions: cs, log: log}, nil
}

// Login checks the credentials and marks the session as admin. A missing
// admin, a wrong password and a failing store all look the same to the
// caller.
func (g *Gate) Login(w http.ResponseWriter, r *http.Request, email, secret string) bool {
	stored, err := g.admins.AdminPassword(r.Context(), email)
	if err != nil {
		g.log.Warn("admin lookup failed", slog.String("email", email), logger.Error(err))
		return false
	}
	if !g.matches(email, stored, secret) {
		g.log.Warn("login: invalid credentials", slog.String("email", email), slog.String("remote", r.RemoteAddr))
		return false
	}

	sess, _ := g.sessions.Get(r, SessionName)
	sess.Values[keyAdmin] = true
	sess.Values[keyEmail] = email
	if err := sess.Save(r, w); err != nil {
		g.log.Error("save session failed", logger.Error(err))
		return false
	}
	return true
}

func (g *Gate) matches(email, stored, secret string) bool {
	if IsHashed(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(secret)) == nil
	}
	g.log.Warn("admin password is stored in plaintext", slog.String("email", email))
	return subtle.ConstantTimeCompare([]byte(stored), []byte(secret)) == 1
}

// IsAuthenticated reports whether the request carries an admin session.
func (g *Gate) IsAuthenticated(r *http.Request) bool {
	sess, err := g.sessions.Get(r, SessionName)
	if err != nil {
		return false
	}
	ok, _ := sess.Values[keyAdmin].(bool)
	return ok
}

// Email is the admin signed into the request's session, if any.
func (g *Gate) Email(r *http.Request) string {
	sess, err := g.sessions.Get(r, SessionName)
	if err != nil {
		return ""
	}
	email, _ := sess.Values[keyEmail].(string)
	return email
}

// Logout ends the session. The caller redirects with a full page load so
// nothing from the admin pages survives.
func (g *Gate) Logout(w http.ResponseWriter, r *http.Request) {
	sess, _ := g.sessions.Get(r, SessionName)
	sess.Values = map[any]any{}
	sess.Options = cookieOptions(-1)
	if err := sess.Save(r, w); err != nil {
		g.log.Warn("clear session failed", logger.Error(err))
	}
}

// RequireAuth sends visitors without an admin session to the login page.
func (g *Gate) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.IsAuthenticated(r) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AddFlash queues a one-time notice for the next admin page render.
func (g *Gate) AddFlash(w http.ResponseWriter, r *http.Request, msg string) {
	sess, _ := g.sessions.Get(r, SessionName)
	sess.AddFlash(msg)
	if err := sess.Save(r, w); err != nil {
		g.log.Warn("save flash failed", logger.Error(err))
	}
}

// Flashes pops the queued notices.
func (g *Gate) Flashes(w http.ResponseWriter, r *http.Request) []string {
	sess, err := g.sessions.Get(r, SessionName)
	if err != nil {
		return nil
	}
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		g.log.Warn("save session failed", logger.Error(err))
	}
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// IsHashed reports whether a stored secret is a bcrypt hash.
func IsHashed(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}

func HashSecret(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
