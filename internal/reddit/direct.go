package reddit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DirectSession performs token exchange and API calls with a plain HTTP
// client, presenting the host process's own network fingerprint. It is the
// implementation unit tests run against and the fallback when no emulated
// browser is wanted.
type DirectSession struct {
	TokenURL  string
	UserAgent string

	client *http.Client
}

func NewDirectSession() *DirectSession {
	return &DirectSession{
		TokenURL:  DefaultTokenURL,
		UserAgent: "trend-ai/1.0 (by /u/trend-ai-bot)",
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *DirectSession) ExchangeToken(ctx context.Context, creds Credentials) (*TokenInfo, error) {
	form := url.Values{
		"grant_type": {"password"},
		"username":   {creds.Username},
		"password":   {creds.Password},
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(creds.ClientID, creds.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", s.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	return ParseTokenResponse(body)
}

func (s *DirectSession) Request(ctx context.Context, r Request) (*Response, error) {
	var reqBody io.Reader
	if len(r.Body) > 0 {
		reqBody = bytes.NewReader(r.Body)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.UserAgent)
	for k, v := range r.Header {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

func (s *DirectSession) Cleanup() error {
	s.client.CloseIdleConnections()
	return nil
}
