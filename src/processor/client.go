// Package processor is the client for the external payment-rail
// processor. Created resources come back as URLs in the Location
// header, Dwolla style.
package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// CustomerParams is the personal profile registered with the processor.
type CustomerParams struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Type        string `json:"type"`
	Address1    string `json:"address1"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode"`
	DateOfBirth string `json:"dateOfBirth"`
	SSN         string `json:"ssn"`
}

type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
	}
}

// CreateCustomer registers a financial customer profile and returns the
// customer resource URL.
func (c *Client) CreateCustomer(ctx context.Context, params CustomerParams) (string, error) {
	location, err := c.post(ctx, "/customers", params)
	if err != nil {
		return "", fmt.Errorf("create customer: %w", err)
	}
	return location, nil
}

// CreateFundingSource attaches a bank account to a customer via an
// aggregator processor token and returns the funding source URL.
func (c *Client) CreateFundingSource(ctx context.Context, customerID, processorToken, bankName string) (string, error) {
	body := map[string]string{
		"plaidToken": processorToken,
		"name":       bankName,
	}

	location, err := c.post(ctx, "/customers/"+customerID+"/funding-sources", body)
	if err != nil {
		return "", fmt.Errorf("create funding source: %w", err)
	}
	return location, nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (string, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("processor returned status %d: %s", resp.StatusCode, string(detail))
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", errors.New("processor response missing Location header")
	}
	return location, nil
}
