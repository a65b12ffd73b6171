package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	apiPrefix = "/api"

	// previewRunes bounds the raw-body preview used when an error response is
	// not JSON (typically an HTML error page from a proxy).
	previewRunes = 120
	maxErrorBody = 64 << 10
)

// Client is the typed wrapper over the EcoBite REST backend. Each method
// issues one HTTP call and normalizes failures into NetworkError, FetchError
// or ParseError. It keeps no state between calls.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Credentials are the caller's backend credentials, forwarded verbatim on
// every call made with the carrying context.
type Credentials struct {
	Cookie      string
	BearerToken string
}

type credentialsKey struct{}

// WithCredentials returns a context whose gateway calls carry creds.
func WithCredentials(ctx context.Context, creds Credentials) context.Context {
	return context.WithValue(ctx, credentialsKey{}, creds)
}

func credentialsFrom(ctx context.Context) (Credentials, bool) {
	creds, ok := ctx.Value(credentialsKey{}).(Credentials)
	return creds, ok
}

// call describes one backend request.
type call struct {
	op          string
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	// fallback is the message used when the error body carries nothing usable.
	fallback string
	// generic skips error-body extraction and always reports fallback.
	generic bool
}

func (c *Client) do(ctx context.Context, cl call, out any) error {
	target := c.baseURL + apiPrefix + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, cl.body)
	if err != nil {
		return fmt.Errorf("%s: building request: %w", cl.op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if cl.contentType != "" {
		req.Header.Set("Content-Type", cl.contentType)
	}
	if creds, ok := credentialsFrom(ctx); ok {
		if creds.Cookie != "" {
			req.Header.Set("Cookie", creds.Cookie)
		}
		if creds.BearerToken != "" {
			req.Header.Set("Authorization", "Bearer "+creds.BearerToken)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: cl.op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if cl.generic {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
			return &FetchError{Op: cl.op, StatusCode: resp.StatusCode, Message: cl.fallback}
		}
		return decodeError(cl.op, resp, cl.fallback)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ParseError{Op: cl.op, Err: err}
	}
	return nil
}

// decodeError extracts the user-facing message from a failed response: the
// JSON "error" field, else a preview of a non-JSON body, else fallback.
func decodeError(op string, resp *http.Response, fallback string) *FetchError {
	fe := &FetchError{Op: op, StatusCode: resp.StatusCode, Message: fallback}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fe
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return fe
	}

	if json.Valid(body) {
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
			fe.Message = payload.Error
		}
		return fe
	}

	fe.Message = preview(body)
	return fe
}

// preview collapses whitespace and truncates to previewRunes runes.
func preview(body []byte) string {
	text := strings.Join(strings.Fields(string(body)), " ")
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "")
	}
	if utf8.RuneCountInString(text) <= previewRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:previewRunes]) + "…"
}

func jsonBody(op string, v any) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%s: encoding body: %w", op, err)
	}
	return bytes.NewReader(data), nil
}
