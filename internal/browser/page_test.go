package browser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sabbirahmed404/trend-ai/internal/reddit"
)

func TestPageFetchBinding(t *testing.T) {
	var gotURL string
	var gotOpts fetchOptions

	pg := newPage(func(url string, opts fetchOptions) (*fetchResult, error) {
		gotURL = url
		gotOpts = opts
		return &fetchResult{Status: 200, Body: `{"a":1}`}, nil
	})

	script := requestScript("https://example.com/thing", "POST",
		map[string]string{"Authorization": "Bearer tok"}, `{"x":2}`)

	status, body, err := pg.evaluate(script)
	require.NoError(t, err)

	assert.Equal(t, 200, status)
	assert.Equal(t, `{"a":1}`, body)
	assert.Equal(t, "https://example.com/thing", gotURL)
	assert.Equal(t, "POST", gotOpts.Method)
	assert.Equal(t, "Bearer tok", gotOpts.Headers["Authorization"])
	assert.Equal(t, `{"x":2}`, gotOpts.Body)
}

func TestPageBtoa(t *testing.T) {
	pg := newPage(nil)

	status, body, err := pg.evaluate(`(function() { return { status: 200, body: btoa("id:secret") }; })()`)
	require.NoError(t, err)
	assert.Equal(t, 200, status)
	assert.Equal(t, "aWQ6c2VjcmV0", body)
}

func TestPageFetchErrorPropagates(t *testing.T) {
	pg := newPage(func(url string, opts fetchOptions) (*fetchResult, error) {
		return nil, errors.New("connection refused")
	})

	_, _, err := pg.evaluate(requestScript("https://example.com", "GET", nil, ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestTokenScriptEncodesCredentialsInPage(t *testing.T) {
	var gotOpts fetchOptions
	pg := newPage(func(url string, opts fetchOptions) (*fetchResult, error) {
		gotOpts = opts
		return &fetchResult{Status: 200, Body: "{}"}, nil
	})

	creds := reddit.Credentials{ClientID: "id", ClientSecret: "secret", Username: "someuser", Password: "somepass"}
	_, _, err := pg.evaluate(tokenScript("https://example.com/token", creds))
	require.NoError(t, err)

	assert.Equal(t, "POST", gotOpts.Method)
	assert.Equal(t, "Basic aWQ6c2VjcmV0", gotOpts.Headers["Authorization"])
	assert.Contains(t, gotOpts.Body, "grant_type=password")
	assert.Contains(t, gotOpts.Body, "username=someuser")
}
