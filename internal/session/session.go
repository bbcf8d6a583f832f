// Package session manages the ephemeral logged-in marker: a single
// cookie named "logged" whose value "1" means logged in. Absence or any
// other value means logged out. It carries no identity and has no
// relationship to the account record beyond gating visibility.
package session

import "net/http"

const (
	cookieName  = "logged"
	loggedValue = "1"
)

// IsLoggedIn reports whether the request carries a valid session flag.
func IsLoggedIn(r *http.Request) bool {
	c, err := r.Cookie(cookieName)
	return err == nil && c.Value == loggedValue
}

// SetLoggedIn sets the session flag on the response.
func SetLoggedIn(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    loggedValue,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear removes the session flag.
func Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
