// Package usertest provides canned user-service handlers for tests that need
// a live upstream behind the auth middleware.
package usertest

import (
	"net/http"
	"strings"
)

// AllowAll answers true for every validity and admin check.
func AllowAll() http.Handler {
	return answer(true, true)
}

// ValidOnly answers true for validity checks and false for admin checks.
func ValidOnly() http.Handler {
	return answer(true, false)
}

// DenyAll answers false for every check.
func DenyAll() http.Handler {
	return answer(false, false)
}

func answer(valid, admin bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/isAdmin"):
			writeBool(w, admin)
		case strings.HasSuffix(r.URL.Path, "/isValid"):
			writeBool(w, valid)
		default:
			http.NotFound(w, r)
		}
	})
}

func writeBool(w http.ResponseWriter, v bool) {
	if v {
		w.Write([]byte("true"))
		return
	}
	w.Write([]byte("false"))
}
