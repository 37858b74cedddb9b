package middleware

import (
	"context"
	"net/http"

	"horizon-server/src/handlers"
	"horizon-server/src/workflow"
)

// SessionAuthMiddleware resolves the session cookie to a user through
// the identity backend and injects the user into the request context.
// Session state only ever flows through the request; there is no
// ambient global.
func SessionAuthMiddleware(orc *workflow.Orchestrator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(handlers.SessionCookieName)
			if err != nil || cookie.Value == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			user := orc.GetCurrentUser(r.Context(), cookie.Value)
			if user == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), "user", user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
