package yookassa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const defaultBaseURL = "https://api.yookassa.ru/v3"

var (
	ErrNotConfigured = errors.New("yookassa is not configured")
	ErrInvalidAmount = errors.New("invalid amount for yookassa payment")
)

// Amount is the provider's money shape: decimal string plus currency.
// We keep money as int64 kopecks internally and convert at this boundary.
type Amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type Confirmation struct {
	Type            string `json:"type"`
	ReturnURL       string `json:"return_url,omitempty"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

type PaymentMethod struct {
	Type string `json:"type"`
}

type Receipt struct {
	RegistrationURL string `json:"registration_url,omitempty"`
}

type Payment struct {
	ID            string            `json:"id"`
	Status        string            `json:"status"`
	Paid          bool              `json:"paid"`
	Amount        Amount            `json:"amount"`
	Description   string            `json:"description,omitempty"`
	Confirmation  *Confirmation     `json:"confirmation,omitempty"`
	PaymentMethod *PaymentMethod    `json:"payment_method,omitempty"`
	Receipt       *Receipt          `json:"receipt,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// ConfirmationURL returns the redirect target, wherever the provider put it.
func (p *Payment) ConfirmationURL() string {
	if p.Confirmation == nil {
		return ""
	}
	return p.Confirmation.ConfirmationURL
}

type CreatePaymentRequest struct {
	Amount      int64 // kopecks, must be > 0
	Description string
	ReturnURL   string
	Metadata    map[string]string
}

type apiError struct {
	Type        string `json:"type"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Client is a thin wrapper over the YooKassa HTTP API. No business rules
// live here, only request/response shaping and credentials.
type Client struct {
	shopID    string
	secretKey string
	baseURL   string
	http      *http.Client
}

func NewClient(shopID, secretKey string) *Client {
	return &Client{
		shopID:    shopID,
		secretKey: secretKey,
		baseURL:   defaultBaseURL,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// NewClientWithBaseURL is used by tests to point the client at a stub server.
func NewClientWithBaseURL(shopID, secretKey, baseURL string) *Client {
	c := NewClient(shopID, secretKey)
	c.baseURL = baseURL
	return c
}

func (c *Client) IsConfigured() bool {
	return c.shopID != "" && c.secretKey != ""
}

func FormatAmount(kopecks int64) string {
	return fmt.Sprintf("%d.%02d", kopecks/100, kopecks%100)
}

func (c *Client) CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*Payment, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	body := map[string]any{
		"amount":  Amount{Value: FormatAmount(req.Amount), Currency: "RUB"},
		"capture": true,
		"confirmation": map[string]string{
			"type":       "redirect",
			"return_url": req.ReturnURL,
		},
		"description": req.Description,
		"metadata":    req.Metadata,
	}
	return c.do(ctx, http.MethodPost, "/payments", body, uuid.NewString())
}

func (c *Client) GetPayment(ctx context.Context, id string) (*Payment, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	if id == "" {
		return nil, errors.New("payment id is required")
	}
	return c.do(ctx, http.MethodGet, "/payments/"+id, nil, "")
}

func (c *Client) do(ctx context.Context, method, path string, body any, idempotenceKey string) (*Payment, error) {
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		buf = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.shopID, c.secretKey)
	req.Header.Set("Content-Type", "application/json")
	if idempotenceKey != "" {
		req.Header.Set("Idempotence-Key", idempotenceKey)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		var apiErr apiError
		if err := json.NewDecoder(res.Body).Decode(&apiErr); err == nil && apiErr.Description != "" {
			return nil, fmt.Errorf("yookassa: %s: %s", res.Status, apiErr.Description)
		}
		return nil, fmt.Errorf("yookassa: unexpected status %s", res.Status)
	}

	var p Payment
	if err := json.NewDecoder(res.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("yookassa: decode response: %w", err)
	}
	return &p, nil
}
