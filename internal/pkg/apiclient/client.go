// internal/pkg/apiclient/client.go
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	maxResponseBytes = 8 << 20
	maxErrorBytes    = 64 << 10
	bodyExcerptBytes = 1000
	logExcerptBytes  = 2000
)

// TokenStore gives the client access to the browser's bearer token
type TokenStore interface {
	Token(ctx context.Context) string
	ClearToken(ctx context.Context)
}

// Requester is the HTTP contract every page and domain service consumes.
// Each method returns the parsed JSON body, or nil for empty and non-JSON bodies.
type Requester interface {
	Get(ctx context.Context, path string) (json.RawMessage, error)
	Post(ctx context.Context, path string, body interface{}) (json.RawMessage, error)
	Put(ctx context.Context, path string, body interface{}) (json.RawMessage, error)
	Patch(ctx context.Context, path string, body interface{}) (json.RawMessage, error)
	Delete(ctx context.Context, path string) (json.RawMessage, error)
}

// Observer receives one call per completed backend request
type Observer interface {
	ObserveAPICall(method, outcome string, duration time.Duration)
}

// Config configures the client
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logrus.Logger
	Observer   Observer
}

// Client holds the shared transport to the backend API
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	log        *logrus.Logger
	observer   Observer
}

// New creates a new backend API client
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    timeout,
		httpClient: httpClient,
		log:        log,
		observer:   cfg.Observer,
	}
}

// Session binds the client to one browser's token
func (c *Client) Session(tokens TokenStore) *Session {
	return &Session{client: c, tokens: tokens}
}

// Session is the client as seen from one browser. It implements Requester.
type Session struct {
	client *Client
	tokens TokenStore

	mu             sync.Mutex
	onUnauthorized []func(ctx context.Context)
}

// OnUnauthorized registers fn to run after a 401 cleared the token
func (s *Session) OnUnauthorized(fn func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUnauthorized = append(s.onUnauthorized, fn)
}

// Get performs a GET request
func (s *Session) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return s.Do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with a JSON body
func (s *Session) Post(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	return s.Do(ctx, http.MethodPost, path, body)
}

// Put performs a PUT request with a JSON body
func (s *Session) Put(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	return s.Do(ctx, http.MethodPut, path, body)
}

// Patch performs a PATCH request with a JSON body
func (s *Session) Patch(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	return s.Do(ctx, http.MethodPatch, path, body)
}

// Delete performs a DELETE request
func (s *Session) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return s.Do(ctx, http.MethodDelete, path, nil)
}

// Raw performs a GET and returns the body untouched, for non-JSON downloads
// such as CSV exports
func (s *Session) Raw(ctx context.Context, path string) ([]byte, string, error) {
	resp, cancel, err := s.send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, "", err
	}
	defer cancel()
	defer resp.Body.Close()

	body, err := readLimited(resp.Body, maxResponseBytes)
	if err != nil {
		return nil, "", fmt.Errorf("read response body: %w", err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// Do executes a request against the backend
func (s *Session) Do(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error) {
	resp, cancel, err := s.send(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	defer cancel()
	defer resp.Body.Close()

	// Handle empty responses (204 No Content or non-JSON body)
	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, nil
	}

	data, err := readLimited(resp.Body, maxResponseBytes)
	if err != nil {
		if isTimeout(err) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(data) {
		s.client.log.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
		}).Warn("Failed to parse JSON response")
		return nil, nil
	}

	return json.RawMessage(data), nil
}

// send performs the round trip and translates every non-2xx outcome into an
// error. On success the caller owns resp.Body and must call cancel.
func (s *Session) send(ctx context.Context, method, path string, body interface{}) (*http.Response, context.CancelFunc, error) {
	c := s.client
	start := time.Now()

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)

	req, err := http.NewRequestWithContext(reqCtx, method, c.baseURL+path, bodyReader)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s.tokens != nil {
		if token := s.tokens.Token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		if isTimeout(err) || errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			c.observe(method, "timeout", start)
			return nil, nil, ErrTimeout
		}
		c.observe(method, "network_error", start)
		return nil, nil, fmt.Errorf("%w: %s %s: %v", ErrNetwork, method, path, err)
	}

	c.observe(method, fmt.Sprintf("%dxx", resp.StatusCode/100), start)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		drain(resp)
		cancel()
		s.handleUnauthorized(ctx)
		return nil, nil, ErrUnauthorized

	case resp.StatusCode == http.StatusForbidden:
		drain(resp)
		cancel()
		return nil, nil, ErrForbidden

	case resp.StatusCode < 200 || resp.StatusCode > 299:
		apiErr := c.translate(method, path, resp)
		cancel()
		return nil, nil, apiErr
	}

	return resp, cancel, nil
}

func (s *Session) handleUnauthorized(ctx context.Context) {
	if s.tokens != nil {
		s.tokens.ClearToken(ctx)
	}

	s.mu.Lock()
	hooks := append([]func(context.Context){}, s.onUnauthorized...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(ctx)
	}
}

// translate builds an *Error from a failed response
func (c *Client) translate(method, path string, resp *http.Response) *Error {
	defer resp.Body.Close()

	raw, _ := readLimited(resp.Body, maxErrorBytes)
	text := string(raw)

	message := fmt.Sprintf("API Error: %s", resp.Status)
	if gjson.Valid(text) {
		if m := gjson.Get(text, "message"); m.Exists() && m.String() != "" {
			message = m.String()
		}
	}

	c.log.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
		"status": resp.StatusCode,
		"body":   truncate(text, logExcerptBytes),
	}).Error("Backend API request failed")

	return &Error{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Message:    message,
		Body:       truncate(text, bodyExcerptBytes),
	}
}

func (c *Client) observe(method, outcome string, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveAPICall(method, outcome, time.Since(start))
	}
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBytes))
	resp.Body.Close()
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

// truncate cuts s to at most n bytes without splitting a rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
