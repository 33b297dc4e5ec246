// Package browser implements the reddit.Session capability as an emulated
// browser: requests leave through a Chrome-fingerprinted transport and are
// issued from scripts evaluated in a throwaway page context. This exists to
// present a consistent browser-like network fingerprint, not for rendering.
package browser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/sabbirahmed404/trend-ai/internal/reddit"
)

// Session owns one emulated browser: a fingerprinted HTTP client and a script
// context recreated before each call. Both are created lazily on first use
// and torn down by Cleanup; the session is reusable afterwards.
//
// One call is in flight at a time; the mutex serializes callers the way a
// single page would.
type Session struct {
	TokenURL string

	logger    *log.Logger
	mu        sync.Mutex
	transport *chromeTransport
	client    *http.Client
}

func NewSession(logger *log.Logger) *Session {
	return &Session{
		TokenURL: reddit.DefaultTokenURL,
		logger:   logger,
	}
}

// init lazily launches the session. Idempotent: at most one transport and
// client exist per session until Cleanup.
func (s *Session) init() {
	if s.client != nil {
		return
	}
	s.transport = newChromeTransport(s.logger)
	s.client = &http.Client{Transport: s.transport}
	s.logger.Debug("browser session initialized", "user_agent", chromeUserAgent)
}

// newPage opens a fresh script context bound to this call's context.
func (s *Session) newPage(ctx context.Context) *page {
	return newPage(func(rawURL string, opts fetchOptions) (*fetchResult, error) {
		return s.doFetch(ctx, rawURL, opts)
	})
}

// doFetch backs the page's fetch binding: it performs the real network call
// through the fingerprinted client.
func (s *Session) doFetch(ctx context.Context, rawURL string, opts fetchOptions) (*fetchResult, error) {
	var body io.Reader
	if opts.Body != "" {
		body = strings.NewReader(opts.Body)
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &fetchResult{Status: resp.StatusCode, Body: string(respBody)}, nil
}

func (s *Session) ExchangeToken(ctx context.Context, creds reddit.Credentials) (*reddit.TokenInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.init()
	pg := s.newPage(ctx)

	status, body, err := pg.evaluate(tokenScript(s.TokenURL, creds))
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, &reddit.StatusError{Code: status, Body: body}
	}

	return reddit.ParseTokenResponse([]byte(body))
}

func (s *Session) Request(ctx context.Context, r reddit.Request) (*reddit.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.init()
	pg := s.newPage(ctx)

	status, body, err := pg.evaluate(requestScript(r.URL, r.Method, r.Header, string(r.Body)))
	if err != nil {
		return nil, err
	}

	return &reddit.Response{StatusCode: status, Body: []byte(body)}, nil
}

// Cleanup closes the transport and drops all lazily created references. A
// subsequent call re-initializes from scratch instead of touching closed
// resources. Callers must invoke this on every exit path; the transport is
// the one OS-level resource this package holds.
func (s *Session) Cleanup() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.transport != nil {
		s.transport.Close()
	}
	s.transport = nil
	s.client = nil

	s.logger.Debug("browser session cleaned up")
	return nil
}
