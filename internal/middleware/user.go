package middleware

import (
	"net/http"
	"strings"

	"orgaudit/internal/auth"
)

// UserHeader carries the acting user for audit attribution.
const UserHeader = "X-User"

// UserMiddleware copies the acting user from the request header into the
// context so audit rows can record who made the change. Requests without
// the header stay anonymous.
func UserMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := strings.TrimSpace(r.Header.Get(UserHeader)); user != "" {
			r = r.WithContext(auth.ContextWithUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}
