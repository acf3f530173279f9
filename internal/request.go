package internal

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/ianaindex"
)

// DefaultEncoding is used by Decode when the caller does not pick one
const DefaultEncoding = "utf-8"

// Request describes a single call to the hub or the identity provider
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Cookies map[string]string
	Params  url.Values
	// Body is JSON-encoded when non-nil
	Body any
	// Timeout overrides the manager's default for this request
	Timeout time.Duration
}

// Response is a fully read HTTP response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// RequestManager sends requests with the client's header and timeout conventions
type RequestManager struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// NewRequestManager builds a manager from the client configuration
func NewRequestManager(cfg Config, userAgent string) *RequestManager {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		LogWarn("TLS certificate verification is disabled")
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // local development only
	}
	return NewRequestManagerWithClient(&http.Client{Transport: transport}, cfg.Timeout, userAgent)
}

// NewRequestManagerWithClient wraps an existing http.Client (used by tests with httptest servers)
func NewRequestManagerWithClient(client *http.Client, timeout time.Duration, userAgent string) *RequestManager {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &RequestManager{client: client, timeout: timeout, userAgent: userAgent}
}

// Send performs the request and reads the whole body before returning
func (m *RequestManager) Send(ctx context.Context, req Request) (*Response, error) {
	op := req.Method + " " + req.URL

	target, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid request URL %q: %w", req.URL, err)
	}
	if len(req.Params) > 0 {
		q := target.Query()
		for key, values := range req.Params {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		target.RawQuery = q.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = m.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if m.userAgent != "" {
		httpReq.Header.Set("User-Agent", m.userAgent)
	}
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	for name, value := range req.Cookies {
		httpReq.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	LogDebug("%s %s", req.Method, target.Redacted())
	resp, err := m.client.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return nil, &HubError{Kind: KindTimeout, Op: op, Message: fmt.Sprintf("no response within %s", timeout), Err: err}
		}
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, &HubError{Kind: KindTimeout, Op: op, Message: fmt.Sprintf("response body not received within %s", timeout), Err: err}
		}
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	LogDebug("%s %s -> %d (%d bytes)", req.Method, target.Redacted(), resp.StatusCode, len(data))

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Decode converts the response body to text in the given encoding
func Decode(resp *Response, encoding string) (string, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	switch strings.ToLower(encoding) {
	case "utf-8", "utf8":
		if !utf8.Valid(resp.Body) {
			return "", &HubError{Kind: KindResponseDecode, StatusCode: resp.StatusCode, Message: "error in response encoding format: invalid utf-8"}
		}
		return string(resp.Body), nil
	}

	enc, err := ianaindex.IANA.Encoding(encoding)
	if err != nil || enc == nil {
		return "", &HubError{Kind: KindResponseDecode, StatusCode: resp.StatusCode, Message: fmt.Sprintf("unsupported encoding %q", encoding), Err: err}
	}
	out, err := enc.NewDecoder().Bytes(resp.Body)
	if err != nil {
		return "", &HubError{Kind: KindResponseDecode, StatusCode: resp.StatusCode, Message: "error in response encoding format", Err: err}
	}
	return string(out), nil
}

// DecodeJSON decodes a UTF-8 JSON body into v, reporting any failure as a malformed upstream response
func DecodeJSON(op string, resp *Response, v any) error {
	text, err := Decode(resp, DefaultEncoding)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return upstreamMalformed(op, err)
	}
	return nil
}
