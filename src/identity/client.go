// Package identity is the client for the external identity backend,
// the service of record for user accounts and authentication sessions.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Account is an identity record held by the backend.
type Account struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session is an authenticated backend session. Secret is the opaque
// value carried in the session cookie; it must never be logged.
type Session struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Secret    string `json:"secret"`
	ExpiresAt string `json:"expires_at"`
}

type Client struct {
	httpClient *http.Client
	endpoint   string
	project    string
	apiKey     string
}

func NewClient(endpoint, project, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		endpoint:   strings.TrimRight(endpoint, "/"),
		project:    project,
		apiKey:     apiKey,
	}
}

// CreateAccount registers a new identity record.
func (c *Client) CreateAccount(ctx context.Context, accountID, email, password, name string) (*Account, error) {
	body := map[string]string{
		"userId":   accountID,
		"email":    email,
		"password": password,
		"name":     name,
	}

	var account Account
	if err := c.do(ctx, http.MethodPost, "/v1/account", "", body, &account); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return &account, nil
}

// CreateEmailPasswordSession authenticates the credentials and opens a
// new session.
func (c *Client) CreateEmailPasswordSession(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var session Session
	if err := c.do(ctx, http.MethodPost, "/v1/account/sessions/email", "", body, &session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &session, nil
}

// GetAccount resolves the account behind a session secret.
func (c *Client) GetAccount(ctx context.Context, sessionSecret string) (*Account, error) {
	var account Account
	if err := c.do(ctx, http.MethodGet, "/v1/account", sessionSecret, nil, &account); err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &account, nil
}

// DeleteSession invalidates the session behind the secret.
func (c *Client) DeleteSession(ctx context.Context, sessionSecret string) error {
	if err := c.do(ctx, http.MethodDelete, "/v1/account/sessions/current", sessionSecret, nil, nil); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path, sessionSecret string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Identity-Project", c.project)
	if sessionSecret != "" {
		req.Header.Set("X-Identity-Session", sessionSecret)
	} else {
		req.Header.Set("X-Identity-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("identity backend returned status %d: %s", resp.StatusCode, string(raw))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
