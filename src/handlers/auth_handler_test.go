package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"horizon-server/src/db"
	"horizon-server/src/identity"
	"horizon-server/src/models"
	"horizon-server/src/processor"
	"horizon-server/src/workflow"
)

func TestMain(m *testing.M) {
	db.InitCache()
	os.Exit(m.Run())
}

type stubIdentity struct {
	deleteErr   error
	deleteCalls int
	getErr      error
	sessionErr  error
}

func (s *stubIdentity) CreateAccount(ctx context.Context, accountID, email, password, name string) (*identity.Account, error) {
	return &identity.Account{ID: "identity-1", Email: email, Name: name}, nil
}

func (s *stubIdentity) CreateEmailPasswordSession(ctx context.Context, email, password string) (*identity.Session, error) {
	if s.sessionErr != nil {
		return nil, s.sessionErr
	}
	return &identity.Session{ID: "sess-1", Secret: "secret-1"}, nil
}

func (s *stubIdentity) GetAccount(ctx context.Context, sessionSecret string) (*identity.Account, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &identity.Account{ID: "identity-1"}, nil
}

func (s *stubIdentity) DeleteSession(ctx context.Context, sessionSecret string) error {
	s.deleteCalls++
	return s.deleteErr
}

type stubProcessor struct{}

func (stubProcessor) CreateCustomer(ctx context.Context, params processor.CustomerParams) (string, error) {
	return "https://rail.test/customers/cus-1", nil
}

func (stubProcessor) CreateFundingSource(ctx context.Context, customerID, processorToken, bankName string) (string, error) {
	return "https://rail.test/funding-sources/fs-1", nil
}

type stubBankLink struct{}

func (stubBankLink) CreateLinkToken(ctx context.Context, clientUserID, clientName string) (string, error) {
	return "link-token-1", nil
}

func (stubBankLink) ExchangePublicToken(ctx context.Context, publicToken string) (string, string, error) {
	return "access-token-1", "item-1", nil
}

func (stubBankLink) GetAccounts(ctx context.Context, accessToken string) ([]models.AggregatorAccount, error) {
	return []models.AggregatorAccount{{AccountID: "acct-1", Name: "Checking"}}, nil
}

func (stubBankLink) CreateProcessorToken(ctx context.Context, accessToken, accountID string) (string, error) {
	return "processor-token-1", nil
}

type stubStore struct {
	users []*models.User
}

func (s *stubStore) CreateUser(ctx context.Context, user *models.User) error {
	s.users = append(s.users, user)
	return nil
}

func (s *stubStore) GetUserByIdentityID(ctx context.Context, identityID string) (*models.User, error) {
	for _, u := range s.users {
		if u.IdentityID == identityID {
			return u, nil
		}
	}
	return nil, errors.New("user not found")
}

func (s *stubStore) CreateBankAccount(ctx context.Context, bank *models.BankAccount) error {
	return nil
}

func (s *stubStore) GetBankAccountsForUser(ctx context.Context, userID string) ([]models.BankAccount, error) {
	return nil, nil
}

func newTestOrchestrator(id *stubIdentity, store *stubStore) *workflow.Orchestrator {
	return workflow.NewOrchestrator(id, stubProcessor{}, stubBankLink{}, store, "sharable-secret", "seal-key")
}

func sessionClearedBy(resp *http.Response) bool {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == SessionCookieName && cookie.Value == "" && cookie.MaxAge < 0 {
			return true
		}
	}
	return false
}

func TestLogoutClearsCookieWhenBackendSucceeds(t *testing.T) {
	id := &stubIdentity{}
	handler := Logout(newTestOrchestrator(id, &stubStore{}))

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "secret-1"})
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !sessionClearedBy(rec.Result()) {
		t.Error("session cookie was not cleared")
	}
	if id.deleteCalls != 1 {
		t.Errorf("backend delete calls = %d, want 1", id.deleteCalls)
	}
}

func TestLogoutClearsCookieWhenBackendFails(t *testing.T) {
	id := &stubIdentity{deleteErr: errors.New("backend unavailable")}
	handler := Logout(newTestOrchestrator(id, &stubStore{}))

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "secret-1"})
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even when backend invalidation fails", rec.Code)
	}
	if !sessionClearedBy(rec.Result()) {
		t.Error("session cookie must be cleared regardless of backend failure")
	}
}

func TestMeWithoutSessionReturnsNull(t *testing.T) {
	handler := Me(newTestOrchestrator(&stubIdentity{}, &stubStore{}))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "null" {
		t.Errorf("body = %q, want null", body)
	}
}

func TestMeResolvesSessionCookie(t *testing.T) {
	store := &stubStore{users: []*models.User{{ID: "user-1", IdentityID: "identity-1", Email: "a@b.com"}}}
	handler := Me(newTestOrchestrator(&stubIdentity{}, store))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "secret-1"})
	rec := httptest.NewRecorder()
	handler(rec, req)

	if !strings.Contains(rec.Body.String(), `"id":"user-1"`) {
		t.Errorf("body = %q, want user-1 payload", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "ssn") {
		t.Error("response must not carry the national id field")
	}
}

func TestSignUpUnderageRejected(t *testing.T) {
	handler := SignUp(newTestOrchestrator(&stubIdentity{}, &stubStore{}))

	body := `{"email":"a@b.com","password":"password1","first_name":"A","last_name":"B",` +
		`"address1":"1 Main St","city":"Springfield","state":"IL","postal_code":"62704",` +
		`"date_of_birth":"2010-01-01","ssn":"123-45-6789"}`
	req := httptest.NewRequest(http.MethodPost, "/api/sign-up", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), models.ErrAgeRequirementNotMet) {
		t.Errorf("body = %q, want error kind %s", rec.Body.String(), models.ErrAgeRequirementNotMet)
	}
}

func TestSignUpSuccessSetsSessionCookie(t *testing.T) {
	store := &stubStore{}
	handler := SignUp(newTestOrchestrator(&stubIdentity{}, store))

	body := `{"email":"a@b.com","password":"password1","first_name":"A","last_name":"B",` +
		`"address1":"1 Main St","city":"Springfield","state":"IL","postal_code":"62704",` +
		`"date_of_birth":"1990-01-01","ssn":"123-45-6789"}`
	req := httptest.NewRequest(http.MethodPost, "/api/sign-up", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var sessionCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == SessionCookieName {
			sessionCookie = cookie
		}
	}
	if sessionCookie == nil || sessionCookie.Value != "secret-1" {
		t.Fatal("session cookie was not set")
	}
	if !sessionCookie.HttpOnly || !sessionCookie.Secure || sessionCookie.SameSite != http.SameSiteStrictMode || sessionCookie.Path != "/" {
		t.Errorf("cookie attributes = %+v, want httpOnly strict secure path=/", sessionCookie)
	}
	if strings.Contains(rec.Body.String(), "123-45-6789") {
		t.Error("response leaks the national id")
	}
}

func TestSignUpRejectsBadEmail(t *testing.T) {
	handler := SignUp(newTestOrchestrator(&stubIdentity{}, &stubStore{}))

	req := httptest.NewRequest(http.MethodPost, "/api/sign-up", strings.NewReader(`{"email":"nope","password":"password1","first_name":"A","last_name":"B"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSignInInvalidCredentials(t *testing.T) {
	id := &stubIdentity{sessionErr: errors.New("bad password")}
	handler := SignIn(newTestOrchestrator(id, &stubStore{}))

	req := httptest.NewRequest(http.MethodPost, "/api/sign-in", strings.NewReader(`{"email":"a@b.com","password":"wrong"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "bad password") {
		t.Error("response leaks upstream error detail")
	}
}
