package handlers

import (
	"encoding/json"
	"net/http"

	"horizon-server/src/models"
)

// writeWorkflowError maps a workflow error kind to an HTTP status and a
// client-safe message. Upstream detail stays in server logs.
func writeWorkflowError(w http.ResponseWriter, err error) {
	kind := models.ErrorKind(err)

	status := http.StatusInternalServerError
	message := "internal error"

	switch kind {
	case models.ErrAgeRequirementNotMet:
		status = http.StatusUnprocessableEntity
		message = "you must be at least 18 years old to sign up"
	case models.ErrAuthenticationFailed:
		status = http.StatusUnauthorized
		message = "invalid credentials"
	case models.ErrIdentityCreationFailed:
		status = http.StatusBadGateway
		message = "account creation failed"
	case models.ErrProcessorCustomerCreationFailed:
		status = http.StatusBadGateway
		message = "account provisioning failed"
	case models.ErrTokenExchangeFailed:
		status = http.StatusBadGateway
		message = "bank linking failed"
	case models.ErrFundingSourceCreationFailed:
		status = http.StatusBadGateway
		message = "bank could not be enabled for payments"
	case models.ErrPersistenceFailed:
		status = http.StatusInternalServerError
		message = "internal error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   kind,
		"message": message,
	})
}

func outcomeLabel(err error) string {
	if kind := models.ErrorKind(err); kind != "" {
		return kind
	}
	return "error"
}
