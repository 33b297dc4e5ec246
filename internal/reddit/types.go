package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	// DefaultBaseURL is the authenticated Reddit API root.
	DefaultBaseURL = "https://oauth.reddit.com"

	// DefaultTokenURL is the OAuth2 password-grant token endpoint.
	DefaultTokenURL = "https://www.reddit.com/api/v1/access_token"

	// refreshBuffer is the safety margin subtracted from a token's expiry.
	// A token that expires within this window is treated as stale and
	// refreshed before the next request.
	refreshBuffer = time.Hour
)

// Credentials identify a Reddit script app plus the account it acts as.
// They are held in memory by the client that receives them and never persisted.
type Credentials struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
}

// TokenInfo is the single cached bearer token of a client instance.
type TokenInfo struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Request describes one authenticated API call as handed to a Session.
type Request struct {
	Method string
	URL    string
	Header map[string]string
	Body   []byte
}

// Response is the raw result of a Session request. Non-2xx statuses are
// returned here unchanged; the client turns them into a StatusError.
type Response struct {
	StatusCode int
	Body       []byte
}

// Session is the transport capability behind the client: exchange credentials
// for a token and replay HTTP calls. Implementations decide how the bytes hit
// the network (direct client or an emulated browser). Cleanup must release
// whatever the session lazily acquired; the session stays reusable afterwards.
type Session interface {
	ExchangeToken(ctx context.Context, creds Credentials) (*TokenInfo, error)
	Request(ctx context.Context, req Request) (*Response, error)
	Cleanup() error
}

// StatusError reports a non-2xx API response. The message carries both the
// numeric status and the raw body so callers can log it as-is.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("reddit API error: status=%d body=%s", e.Code, e.Body)
}

// ListingOptions control a subreddit listing request.
type ListingOptions struct {
	Limit int    // default 25
	After string // pagination cursor, omitted when empty
	Sort  string // default "hot"
	Time  string // default "day"
}

// Listing is the paginated post envelope Reddit returns. The shape is
// externally defined; it is typed here and not otherwise validated.
type Listing struct {
	Kind string      `json:"kind"`
	Data ListingData `json:"data"`
}

type ListingData struct {
	After    string         `json:"after"`
	Before   string         `json:"before"`
	Children []ListingChild `json:"children"`
}

type ListingChild struct {
	Kind string `json:"kind"`
	Data Post   `json:"data"`
}

type Post struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"` // fullname, e.g. "t3_abc123"
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Subreddit   string  `json:"subreddit"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	Permalink   string  `json:"permalink"`
	Selftext    string  `json:"selftext"`
	URL         string  `json:"url"`
	CreatedUTC  float64 `json:"created_utc"`
}

// UserInfo is the /api/v1/me identity payload.
type UserInfo struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	LinkKarma    int     `json:"link_karma"`
	CommentKarma int     `json:"comment_karma"`
	Created      float64 `json:"created_utc"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
	Error       string `json:"error"`
}

// ParseTokenResponse decodes a token-endpoint body into a TokenInfo with an
// absolute expiry. Shared by every Session implementation.
func ParseTokenResponse(body []byte) (*TokenInfo, error) {
	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if tr.Error != "" {
		return nil, fmt.Errorf("token exchange rejected: %s", tr.Error)
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("token response contained no access_token")
	}
	return &TokenInfo{
		AccessToken: tr.AccessToken,
		ExpiresAt:   time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second),
	}, nil
}
