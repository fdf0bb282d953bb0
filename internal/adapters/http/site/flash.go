package site

import (
	"net/http"
	"net/url"
)

// savedCookie carries the category of the last save across the redirect.
const (
	savedCookie    = "bikelog_saved"
	savedCookieAge = 60
)

func putSaved(w http.ResponseWriter, category string) {
	http.SetCookie(w, &http.Cookie{
		Name:     savedCookie,
		Value:    url.QueryEscape(category),
		Path:     "/",
		MaxAge:   savedCookieAge,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// takeSaved returns the pending saved category and expires the cookie so the
// message shows once.
func takeSaved(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(savedCookie)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: savedCookie, Path: "/", MaxAge: -1, HttpOnly: true})
	v, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return v
}
