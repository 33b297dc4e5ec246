package browser

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/charmbracelet/log"
	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

const chromeUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// chromeHeaders are the client-hint headers Chrome sends alongside its
// user-agent. Together with the uTLS ClientHello they make the session look
// like a desktop browser instead of a Go process.
var chromeHeaders = map[string]string{
	"sec-ch-ua":          `"Chromium";v="124", "Google Chrome";v="124", "Not-A.Brand";v="99"`,
	"sec-ch-ua-mobile":   "?0",
	"sec-ch-ua-platform": `"Windows"`,
	"Accept-Language":    "en-US,en;q=0.9",
}

// chromeTransport dials HTTPS with a Chrome TLS fingerprint and speaks h2 or
// http/1.1 depending on what the server negotiates. Plain http URLs pass
// through an ordinary transport, which is what tests rely on. One connection
// is made per request; the owning session resets per call anyway.
//
// Every outgoing request is logged, and non-2xx responses are logged with
// their body for diagnostics.
type chromeTransport struct {
	logger *log.Logger
	dialer net.Dialer
	plain  *http.Transport
	h2     *http2.Transport
}

func newChromeTransport(logger *log.Logger) *chromeTransport {
	return &chromeTransport{
		logger: logger,
		plain:  &http.Transport{},
		h2:     &http2.Transport{},
	}
}

func (t *chromeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", chromeUserAgent)
	}
	for k, v := range chromeHeaders {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}

	t.logger.Debug("outgoing request", "method", req.Method, "url", req.URL.String())

	var resp *http.Response
	var err error
	if req.URL.Scheme == "https" {
		resp, err = t.tlsRoundTrip(req)
	} else {
		resp, err = t.plain.RoundTrip(req)
	}
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		t.logFailure(resp)
	}
	return resp, nil
}

func (t *chromeTransport) tlsRoundTrip(req *http.Request) (*http.Response, error) {
	host := req.URL.Hostname()
	port := req.URL.Port()
	if port == "" {
		port = "443"
	}

	raw, err := t.dialer.DialContext(req.Context(), "tcp", net.JoinHostPort(host, port))
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", req.URL.Host, err)
	}

	uconn := utls.UClient(raw, &utls.Config{ServerName: host}, utls.HelloChrome_Auto)
	if err := uconn.HandshakeContext(req.Context()); err != nil {
		raw.Close()
		return nil, fmt.Errorf("tls handshake with %s failed: %w", host, err)
	}

	if uconn.ConnectionState().NegotiatedProtocol == "h2" {
		cc, err := t.h2.NewClientConn(uconn)
		if err != nil {
			uconn.Close()
			return nil, fmt.Errorf("failed to set up h2 connection: %w", err)
		}
		resp, err := cc.RoundTrip(req)
		if err != nil {
			uconn.Close()
			return nil, err
		}
		resp.Body = &connBody{ReadCloser: resp.Body, conn: uconn}
		return resp, nil
	}

	// http/1.1 over the fingerprinted connection
	if err := req.Write(uconn); err != nil {
		uconn.Close()
		return nil, fmt.Errorf("failed to write request: %w", err)
	}
	resp, err := http.ReadResponse(bufio.NewReader(uconn), req)
	if err != nil {
		uconn.Close()
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	resp.Body = &connBody{ReadCloser: resp.Body, conn: uconn}
	return resp, nil
}

// logFailure logs a non-success response with its body, leaving the body
// readable for the caller.
func (t *chromeTransport) logFailure(resp *http.Response) {
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.logger.Warn("request failed", "status", resp.StatusCode, "body_error", err)
		resp.Body = io.NopCloser(bytes.NewReader(nil))
		return
	}
	t.logger.Warn("request failed", "status", resp.StatusCode, "body", string(body))
	resp.Body = io.NopCloser(bytes.NewReader(body))
}

func (t *chromeTransport) Close() {
	t.plain.CloseIdleConnections()
	t.h2.CloseIdleConnections()
}

// connBody ties a response body to the connection it reads from, so closing
// the body releases the socket.
type connBody struct {
	io.ReadCloser
	conn net.Conn
}

func (b *connBody) Close() error {
	err := b.ReadCloser.Close()
	b.conn.Close()
	return err
}
