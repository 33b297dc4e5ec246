package reddit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectSessionExchangeToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "password", r.PostForm.Get("grant_type"))
		assert.Equal(t, "someuser", r.PostForm.Get("username"))
		assert.Equal(t, "somepass", r.PostForm.Get("password"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"token-123","token_type":"bearer","expires_in":86400,"scope":"*"}`))
	}))
	defer srv.Close()

	session := NewDirectSession()
	session.TokenURL = srv.URL

	token, err := session.ExchangeToken(context.Background(), Credentials{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Username:     "someuser",
		Password:     "somepass",
	})
	require.NoError(t, err)

	assert.Equal(t, "token-123", token.AccessToken)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), token.ExpiresAt, time.Minute)
}

func TestDirectSessionExchangeTokenRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("unauthorized"))
	}))
	defer srv.Close()

	session := NewDirectSession()
	session.TokenURL = srv.URL

	_, err := session.ExchangeToken(context.Background(), Credentials{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "unauthorized")
}

func TestDirectSessionRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	session := NewDirectSession()
	resp, err := session.Request(context.Background(), Request{
		Method: "GET",
		URL:    srv.URL + "/api/v1/me",
		Header: map[string]string{"Authorization": "Bearer token-123"},
	})
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
}

func TestDirectSessionRequestPassesThroughNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("slow down"))
	}))
	defer srv.Close()

	session := NewDirectSession()
	resp, err := session.Request(context.Background(), Request{Method: "GET", URL: srv.URL})
	require.NoError(t, err, "non-2xx is a response, not a transport error")

	assert.Equal(t, 429, resp.StatusCode)
	assert.Equal(t, "slow down", string(resp.Body))
}
