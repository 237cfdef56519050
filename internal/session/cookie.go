package session

import (
	"net/http"
	"time"
)

// CookieConfig describes the cookie that mirrors the session token for the route guard.
// The page layer reads it, so it is not HttpOnly.
type CookieConfig struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

func (c CookieConfig) write(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.MaxAge / time.Second),
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (c CookieConfig) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		Secure:   c.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
