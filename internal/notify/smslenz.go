package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const smsLenzTimeout = 15 * time.Second

type SMSLenzConfig struct {
	BaseURL  string
	UserID   string
	APIKey   string
	SenderID string
	Client   *http.Client
}

// SMSLenzSink sends through the SMSLenz HTTP API. The provider accepts
// the same fields as a form post, a JSON body or a query string depending
// on account settings, so each is tried in that order.
type SMSLenzSink struct {
	cfg      SMSLenzConfig
	endpoint string
}

func NewSMSLenzSink(cfg SMSLenzConfig) (*SMSLenzSink, error) {
	if strings.TrimSpace(cfg.UserID) == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("smslenz: user id and api key are required")
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("smslenz: base url is required")
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: smsLenzTimeout}
	}
	return &SMSLenzSink{cfg: cfg, endpoint: base + "/send-sms"}, nil
}

func (s *SMSLenzSink) Name() string { return "smslenz" }

func (s *SMSLenzSink) Send(ctx context.Context, to, message string) error {
	contact, ok := NormalizeLK(to)
	if !ok {
		return fmt.Errorf("smslenz: invalid phone number %q", to)
	}
	payload := map[string]string{
		"user_id":   s.cfg.UserID,
		"api_key":   s.cfg.APIKey,
		"sender_id": s.cfg.SenderID,
		"contact":   contact,
		"message":   message,
	}

	attempts := []func(context.Context, map[string]string) (*http.Request, error){
		s.formRequest,
		s.jsonRequest,
		s.queryRequest,
	}
	var lastErr error
	for _, build := range attempts {
		req, err := build(ctx, payload)
		if err != nil {
			return err
		}
		if lastErr = s.do(req); lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return fmt.Errorf("smslenz: send failed: %w", lastErr)
}

func (s *SMSLenzSink) formRequest(ctx context.Context, payload map[string]string) (*http.Request, error) {
	form := url.Values{}
	for k, v := range payload {
		form.Set(k, v)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req, nil
}

func (s *SMSLenzSink) jsonRequest(ctx context.Context, payload map[string]string) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (s *SMSLenzSink) queryRequest(ctx context.Context, payload map[string]string) (*http.Request, error) {
	q := url.Values{}
	for k, v := range payload {
		q.Set(k, v)
	}
	return http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+q.Encode(), nil)
}

func (s *SMSLenzSink) do(req *http.Request) error {
	resp, err := s.cfg.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return providerError(body)
}

// providerError reads an explicit failure out of a 2xx JSON reply. Any
// other 2xx body counts as accepted.
func providerError(body []byte) error {
	if !gjson.ValidBytes(body) {
		return nil
	}
	res := gjson.ParseBytes(body)
	failed := false
	if v := res.Get("success"); v.Exists() && v.Type == gjson.False {
		failed = true
	}
	switch strings.ToLower(res.Get("status").String()) {
	case "error", "failed", "fail":
		failed = true
	}
	if !failed {
		return nil
	}
	msg := res.Get("message").String()
	if msg == "" {
		msg = "rejected by provider"
	}
	return errors.New(msg)
}
