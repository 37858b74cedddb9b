package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"horizon-server/src/metrics"
	"horizon-server/src/models"
	"horizon-server/src/util"
	"horizon-server/src/workflow"
)

func SignUp(orc *workflow.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.SignUpRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode sign-up request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		req.FirstName = strings.TrimSpace(req.FirstName)
		req.LastName = strings.TrimSpace(req.LastName)

		if !util.ValidateEmail(req.Email) {
			log.Printf("ERROR: Email validation failed during sign-up - Email: %s", req.Email)
			http.Error(w, "invalid email format", http.StatusBadRequest)
			return
		}
		if !util.ValidatePassword(req.Password) {
			http.Error(w, "password must be at least 8 characters", http.StatusBadRequest)
			return
		}
		if req.FirstName == "" || req.LastName == "" {
			http.Error(w, "first and last name are required", http.StatusBadRequest)
			return
		}

		user, session, err := orc.SignUp(r.Context(), req)
		if err != nil {
			log.Printf("ERROR: Sign-up failed for %s: %v", req.Email, err)
			metrics.SignUps.WithLabelValues(outcomeLabel(err)).Inc()
			writeWorkflowError(w, err)
			return
		}
		metrics.SignUps.WithLabelValues("success").Inc()

		setSessionCookie(w, session.Secret)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(user)
	}
}

func SignIn(orc *workflow.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var credentials struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
			log.Printf("ERROR: Failed to decode sign-in request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		session, err := orc.SignIn(r.Context(), strings.ToLower(strings.TrimSpace(credentials.Email)), credentials.Password)
		if err != nil {
			metrics.SignIns.WithLabelValues("failure").Inc()
			writeWorkflowError(w, err)
			return
		}
		metrics.SignIns.WithLabelValues("success").Inc()

		setSessionCookie(w, session.Secret)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status": "signed_in",
		})
	}
}

// Logout clears the session cookie unconditionally; backend session
// invalidation is best-effort inside the orchestrator.
func Logout(orc *workflow.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			orc.Logout(r.Context(), cookie.Value)
		}

		clearSessionCookie(w)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status": "logged_out",
		})
	}
}

// Me returns the user behind the session cookie, or null when no valid
// session exists.
func Me(orc *workflow.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var secret string
		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			secret = cookie.Value
		}

		user := orc.GetCurrentUser(r.Context(), secret)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(user)
	}
}
