package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
)

// Client obtains and refreshes an OAuth bearer token and performs
// authenticated Reddit API calls through its Session. One token is cached per
// client; a request never proceeds with a token that expires inside the
// refresh buffer.
//
// A client is not safe for concurrent use: the underlying session handles one
// call at a time, so concurrent callers must serialize (one client per task or
// an external lock).
type Client struct {
	creds   Credentials
	session Session
	logger  *log.Logger
	baseURL string
	token   *TokenInfo
}

func NewClient(logger *log.Logger, creds Credentials, session Session) *Client {
	return &Client{
		creds:   creds,
		session: session,
		logger:  logger,
		baseURL: DefaultBaseURL,
	}
}

// SetBaseURL overrides the API root. Used by tests and the smoke tool.
func (c *Client) SetBaseURL(base string) {
	c.baseURL = base
}

// ensureToken refreshes the cached token when there is none or when it
// expires within the refresh buffer. Exchange failures propagate unchanged;
// there is no retry at this layer.
func (c *Client) ensureToken(ctx context.Context) error {
	if c.token != nil && time.Now().Before(c.token.ExpiresAt.Add(-refreshBuffer)) {
		return nil
	}

	c.logger.Debug("exchanging credentials for token", "username", c.creds.Username)
	token, err := c.session.ExchangeToken(ctx, c.creds)
	if err != nil {
		return fmt.Errorf("failed to exchange token: %w", err)
	}

	c.token = token
	c.logger.Debug("token refreshed", "expires_at", token.ExpiresAt)
	return nil
}

// Do performs an authenticated call against endpoint (a path under the API
// root) and decodes the 2xx JSON body into out. Non-2xx responses become a
// *StatusError carrying the status code and raw body.
func (c *Client) Do(ctx context.Context, method, endpoint string, body []byte, headers map[string]string, out interface{}) error {
	if err := c.ensureToken(ctx); err != nil {
		return err
	}

	req := Request{
		Method: method,
		URL:    c.baseURL + endpoint,
		Header: map[string]string{
			"Authorization": "Bearer " + c.token.AccessToken,
			"Accept":        "application/json",
		},
		Body: body,
	}
	for k, v := range headers {
		req.Header[k] = v
	}

	resp, err := c.session.Request(ctx, req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Body: string(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", endpoint, err)
	}
	return nil
}

// listingPath builds the deterministic listing endpoint for a subreddit.
// Defaults: limit 25, sort "hot", time "day". The after cursor is appended
// only when supplied.
func listingPath(subreddit string, opts ListingOptions) string {
	if opts.Limit <= 0 {
		opts.Limit = 25
	}
	if opts.Sort == "" {
		opts.Sort = "hot"
	}
	if opts.Time == "" {
		opts.Time = "day"
	}

	path := fmt.Sprintf("/r/%s/%s?limit=%d&t=%s", url.PathEscape(subreddit), opts.Sort, opts.Limit, opts.Time)
	if opts.After != "" {
		path += "&after=" + url.QueryEscape(opts.After)
	}
	return path
}

// GetRecentPosts fetches one page of a subreddit listing.
func (c *Client) GetRecentPosts(ctx context.Context, subreddit string, opts ListingOptions) (*Listing, error) {
	var listing Listing
	if err := c.Do(ctx, "GET", listingPath(subreddit, opts), nil, nil, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// GetUserInfo fetches the identity of the authenticated account.
func (c *Client) GetUserInfo(ctx context.Context) (*UserInfo, error) {
	var info UserInfo
	if err := c.Do(ctx, "GET", "/api/v1/me", nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Cleanup releases the session's resources. The cached token survives; a
// later call re-initializes the session lazily. Every caller must invoke this
// once finished, on success and failure paths alike.
func (c *Client) Cleanup() error {
	return c.session.Cleanup()
}
