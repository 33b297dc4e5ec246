package browser

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sabbirahmed404/trend-ai/internal/reddit"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestRequestThroughPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, chromeUserAgent, r.Header.Get("User-Agent"))
		assert.NotEmpty(t, r.Header.Get("sec-ch-ua"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Write([]byte(`{"kind":"Listing"}`))
	}))
	defer srv.Close()

	session := NewSession(testLogger())
	defer session.Cleanup()

	resp, err := session.Request(context.Background(), reddit.Request{
		Method: "GET",
		URL:    srv.URL + "/r/golang/hot",
		Header: map[string]string{"Authorization": "Bearer tok"},
	})
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	assert.JSONEq(t, `{"kind":"Listing"}`, string(resp.Body))
}

func TestExchangeToken(t *testing.T) {
	creds := reddit.Credentials{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Username:     "someuser",
		Password:     "somepass",
	}
	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("client-id:client-secret"))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, wantAuth, r.Header.Get("Authorization"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "password", r.PostForm.Get("grant_type"))
		assert.Equal(t, "someuser", r.PostForm.Get("username"))
		assert.Equal(t, "somepass", r.PostForm.Get("password"))

		w.Write([]byte(`{"access_token":"token-456","token_type":"bearer","expires_in":3600,"scope":"*"}`))
	}))
	defer srv.Close()

	session := NewSession(testLogger())
	session.TokenURL = srv.URL
	defer session.Cleanup()

	token, err := session.ExchangeToken(context.Background(), creds)
	require.NoError(t, err)
	assert.Equal(t, "token-456", token.AccessToken)
}

func TestExchangeTokenNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("bad credentials"))
	}))
	defer srv.Close()

	session := NewSession(testLogger())
	session.TokenURL = srv.URL
	defer session.Cleanup()

	_, err := session.ExchangeToken(context.Background(), reddit.Credentials{})
	require.Error(t, err)

	var statusErr *reddit.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 401, statusErr.Code)
	assert.Contains(t, err.Error(), "bad credentials")
}

func TestCleanupThenReuse(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	session := NewSession(testLogger())

	_, err := session.Request(context.Background(), reddit.Request{Method: "GET", URL: srv.URL})
	require.NoError(t, err)

	require.NoError(t, session.Cleanup())

	// A call after cleanup must re-initialize instead of touching closed refs
	resp, err := session.Request(context.Background(), reddit.Request{Method: "GET", URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, int32(2), hits.Load())

	require.NoError(t, session.Cleanup())
}

func TestNon2xxPassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("no such thing"))
	}))
	defer srv.Close()

	session := NewSession(testLogger())
	defer session.Cleanup()

	resp, err := session.Request(context.Background(), reddit.Request{Method: "GET", URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "no such thing", string(resp.Body))
}
