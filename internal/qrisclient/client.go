// Package qrisclient talks to the merchant service HTTP API.
package qrisclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alovak/qris-playground/merchant/models"
	"github.com/alovak/qris-playground/qris"
)

type Client struct {
	Base string
	HTTP *http.Client
}

func New(base string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{Base: strings.TrimRight(base, "/"), HTTP: hc}
}

// StatusError is a non-2xx answer from the service.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status=%d body=%s", e.Status, e.Body)
}

// CreatePayment issues a dynamic payment for req.
func (c *Client) CreatePayment(ctx context.Context, req models.CreatePayment) (*models.PaymentView, error) {
	var out models.PaymentView
	if err := c.post(ctx, "/payments", req, &out); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	return &out, nil
}

// GetPayment fetches an issued payment by id.
func (c *Client) GetPayment(ctx context.Context, id string) (*models.PaymentView, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base+"/payments/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	var out models.PaymentView
	if err := c.do(req, &out); err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return &out, nil
}

// Validate asks the service whether payload has a matching checksum.
func (c *Client) Validate(ctx context.Context, payload string) (valid bool, checksum string, err error) {
	var out struct {
		Valid    bool   `json:"valid"`
		Checksum string `json:"checksum"`
	}
	if err := c.post(ctx, "/payloads/validate", map[string]string{"payload": payload}, &out); err != nil {
		return false, "", fmt.Errorf("validate: %w", err)
	}
	return out.Valid, out.Checksum, nil
}

func (c *Client) Info(ctx context.Context, payload string) (qris.MerchantInfo, error) {
	var out qris.MerchantInfo
	if err := c.post(ctx, "/payloads/info", map[string]string{"payload": payload}, &out); err != nil {
		return qris.MerchantInfo{}, fmt.Errorf("info: %w", err)
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
