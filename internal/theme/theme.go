// Package theme holds the site colour themes and the visitor's choice,
// which lives in a cookie and is read on every request.
package theme

import (
	"net/http"
	"time"

	"github.com/cinezuva/cinezuva/internal/auth"
)

const (
	CookieName = "cinezuva_theme"
	Default    = "netflix"
	cookieDays = 365
)

// Theme colours become the --brand-* CSS variables of the layout.
type Theme struct {
	ID    string
	Name  string
	Brand string
	Dark  string
	Card  string
	Text  string
}

var All = []Theme{
	{ID: "netflix", Name: "Netflix Red", Brand: "#e50914", Dark: "#0f0f0f", Card: "#1a1a1a", Text: "#e5e5e5"},
	{ID: "ocean", Name: "Ocean Blue", Brand: "#0ea5e9", Dark: "#020617", Card: "#0f172a", Text: "#e2e8f0"},
	{ID: "emerald", Name: "Emerald Green", Brand: "#10b981", Dark: "#022c22", Card: "#064e3b", Text: "#ecfdf5"},
	{ID: "purple", Name: "Royal Purple", Brand: "#a855f7", Dark: "#0b0518", Card: "#1e1b4b", Text: "#f3e8ff"},
	{ID: "gold", Name: "Luxury Gold", Brand: "#eab308", Dark: "#121212", Card: "#27272a", Text: "#fafafa"},
}

// Lookup returns the theme with id, falling back to the default theme.
func Lookup(id string) (Theme, bool) {
	for _, t := range All {
		if t.ID == id {
			return t, true
		}
	}
	return All[0], false
}

// Current is the theme stored in the request's cookie.
func Current(r *http.Request) Theme {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return All[0]
	}
	t, _ := Lookup(c.Value)
	return t
}

// Save persists the choice. Unknown ids are rejected.
func Save(w http.ResponseWriter, id string) bool {
	if _, ok := Lookup(id); !ok {
		return false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(time.Hour * 24 * cookieDays),
		MaxAge:   int((time.Hour * 24 * cookieDays).Seconds()),
		HttpOnly: true,
		SameSite: auth.SameSite(),
		Secure:   auth.Secure(),
	})
	return true
}
