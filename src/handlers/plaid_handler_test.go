package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"horizon-server/src/models"
)

func requestAsUser(method, target, body string, user *models.User) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return req.WithContext(context.WithValue(req.Context(), "user", user))
}

func linkedTestUser() *models.User {
	customerID := "cus-1"
	return &models.User{
		ID:                  "user-1",
		IdentityID:          "identity-1",
		FirstName:           "A",
		LastName:            "B",
		ProcessorCustomerID: &customerID,
	}
}

func TestCreateLinkToken(t *testing.T) {
	handler := CreateLinkToken(newTestOrchestrator(&stubIdentity{}, &stubStore{}))

	rec := httptest.NewRecorder()
	handler(rec, requestAsUser(http.MethodPost, "/api/plaid/create-link-token", "", linkedTestUser()))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "link-token-1") {
		t.Errorf("body = %q, want link token", rec.Body.String())
	}
}

func TestExchangePublicTokenComplete(t *testing.T) {
	handler := ExchangePublicToken(newTestOrchestrator(&stubIdentity{}, &stubStore{}))

	rec := httptest.NewRecorder()
	handler(rec, requestAsUser(http.MethodPost, "/api/plaid/exchange-public-token",
		`{"public_token":"public-token-1"}`, linkedTestUser()))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"publicTokenExchange":"complete"`) {
		t.Errorf("body = %q, want completion payload", rec.Body.String())
	}
}

func TestExchangePublicTokenRequiresToken(t *testing.T) {
	handler := ExchangePublicToken(newTestOrchestrator(&stubIdentity{}, &stubStore{}))

	rec := httptest.NewRecorder()
	handler(rec, requestAsUser(http.MethodPost, "/api/plaid/exchange-public-token", `{}`, linkedTestUser()))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
