package auth

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/cinezuva/cinezuva/internal/env"
)

const defaultMaxAge = 86400 * 7

func cookieOptions(maxAge int) *sessions.Options {
	if maxAge == 0 {
		maxAge = defaultMaxAge
	}
	return &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: SameSite(),
		Secure:   Secure(),
	}
}

// SameSite is the SameSite mode for every cookie the site sets.
func SameSite() http.SameSite {
	switch env.Current {
	case env.Production:
		return http.SameSiteStrictMode
	default:
		return http.SameSiteLaxMode
	}
}

// Secure reports whether cookies are limited to HTTPS.
func Secure() bool {
	switch env.Current {
	case env.Production:
		return true
	default:
		return false
	}
}
