package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
)

// ErrUnreachable wraps transport-level failures where no response was
// received at all.
var ErrUnreachable = errors.New("cannot reach server")

// ErrBadResponse marks a 2xx response whose body was not valid JSON.
// Proceeding with undefined data is worse than failing.
var ErrBadResponse = errors.New("server returned an unreadable response")

// StatusError is a non-2xx response. Message carries the server's JSON
// "message"/"error" field when the body had one, otherwise a synthesized
// status line.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

// IsStatus reports whether err is a StatusError with the given code
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// TokenSource supplies the current bearer token. It is consulted on every
// request, never captured early, so a refresh mid-flight is picked up by
// the next call.
type TokenSource func() string

// Client talks to the VoltMart REST backend. The cookie jar carries the
// refresh credential set by the auth endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
}

// New creates a client for the backend at baseURL. token may be nil for
// unauthenticated use.
func New(baseURL string, token TokenSource) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
		token: token,
	}
}

// BaseURL returns the configured backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do issues one JSON request and decodes the response into out (skipped
// when out is nil). All failure-taxonomy handling lives here.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Code:    resp.StatusCode,
			Message: errorMessage(raw, resp.StatusCode),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return nil
}

// errorMessage extracts a user-readable message from an error body. A
// non-JSON body never turns into a parse exception, only a status line.
func errorMessage(raw []byte, code int) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return fmt.Sprintf("request failed with status %d", code)
}

// decodeList accepts both response shapes the backend produces for
// collections: a bare JSON array, or an object wrapping the array under
// the resource name.
func decodeList(raw json.RawMessage, key string, out interface{}) error {
	if err := json.Unmarshal(raw, out); err == nil {
		return nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	inner, ok := envelope[key]
	if !ok {
		return fmt.Errorf("%w: missing %q field", ErrBadResponse, key)
	}
	if err := json.Unmarshal(inner, out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return nil
}
