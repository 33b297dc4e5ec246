package browser

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/sabbirahmed404/trend-ai/internal/reddit"
)

// jsString renders s as a JavaScript string literal.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// requestScript builds the page script for one HTTP call. Token exchange and
// API requests share this shape; only the header set differs.
func requestScript(rawURL, method string, headers map[string]string, body string) string {
	hdrs, _ := json.Marshal(headers)
	bodyPart := ""
	if body != "" {
		bodyPart = ", body: " + jsString(body)
	}
	return fmt.Sprintf(`(function() {
	var res = fetch(%s, { method: %s, headers: %s%s });
	return { status: res.status, body: res.body };
})()`, jsString(rawURL), jsString(method), string(hdrs), bodyPart)
}

// tokenScript builds the exchange script: basic-auth credentials encoded in
// the page context, password-grant form body.
func tokenScript(tokenURL string, creds reddit.Credentials) string {
	form := url.Values{
		"grant_type": {"password"},
		"username":   {creds.Username},
		"password":   {creds.Password},
	}.Encode()

	return fmt.Sprintf(`(function() {
	var res = fetch(%s, {
		method: "POST",
		headers: {
			"Authorization": "Basic " + btoa(%s),
			"Content-Type": "application/x-www-form-urlencoded"
		},
		body: %s
	});
	return { status: res.status, body: res.body };
})()`, jsString(tokenURL), jsString(creds.ClientID+":"+creds.ClientSecret), jsString(form))
}
