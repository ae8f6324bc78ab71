package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// API defines the orchestration calls the dashboard depends on.
// This interface is implemented by *Client and can be used for testing.
type API interface {
	FetchContainers(ctx context.Context) ([]Container, error)
	FetchTemplates(ctx context.Context) ([]Template, error)
	Launch(ctx context.Context, templateID string) (LaunchResult, error)
	Control(ctx context.Context, id string, action Action) error
	Remove(ctx context.Context, id string) error
	Logs(ctx context.Context, id string) (string, error)
	Inspect(ctx context.Context, id string) (Details, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Timeouts bounds each endpoint class. The backend sets no limits of its own,
// so every request carries one of these.
type Timeouts struct {
	List       time.Duration // containers, templates
	Lifecycle  time.Duration // start, stop, restart, delete
	Launch     time.Duration
	Diagnostic time.Duration // logs, inspect
}

// DefaultTimeouts returns the timeouts used when the config leaves them unset.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		List:       5 * time.Second,
		Lifecycle:  30 * time.Second,
		Launch:     60 * time.Second,
		Diagnostic: 15 * time.Second,
	}
}

func (t Timeouts) withDefaults() Timeouts {
	def := DefaultTimeouts()
	if t.List <= 0 {
		t.List = def.List
	}
	if t.Lifecycle <= 0 {
		t.Lifecycle = def.Lifecycle
	}
	if t.Launch <= 0 {
		t.Launch = def.Launch
	}
	if t.Diagnostic <= 0 {
		t.Diagnostic = def.Diagnostic
	}
	return t
}

// Client talks to the orchestration HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	timeouts  Timeouts
	log       logrus.FieldLogger
}

const (
	defaultAPIURL    = "127.0.0.1:8080"
	defaultUserAgent = "flotilla/0.1"
	maxResponseBytes = 4 << 20
)

// NewClient builds a Client for the API at apiURL (host:port or full URL).
// A nil logger discards request logs.
func NewClient(apiURL string, timeouts Timeouts, logger logrus.FieldLogger) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{},
		userAgent: defaultUserAgent,
		timeouts:  timeouts.withDefaults(),
		log:       logger,
	}, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchContainers retrieves the current fleet snapshot.
func (c *Client) FetchContainers(ctx context.Context) ([]Container, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload ContainerListResponse
	if err := c.do(ctx, c.timeouts.List, http.MethodGet, "/api/containers", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Containers, nil
}

// FetchTemplates retrieves the template catalog.
func (c *Client) FetchTemplates(ctx context.Context) ([]Template, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload TemplateListResponse
	if err := c.do(ctx, c.timeouts.List, http.MethodGet, "/api/templates", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Templates, nil
}

// Launch asks the backend to create and start a container from templateID.
func (c *Client) Launch(ctx context.Context, templateID string) (LaunchResult, error) {
	if c == nil {
		return LaunchResult{}, fmt.Errorf("client is nil")
	}
	var payload LaunchResult
	body := LaunchRequest{Template: strings.TrimSpace(templateID)}
	if err := c.do(ctx, c.timeouts.Launch, http.MethodPost, "/api/launch", body, &payload); err != nil {
		return LaunchResult{}, err
	}
	return payload, nil
}

// Control issues start, stop or restart for a container.
func (c *Client) Control(ctx context.Context, id string, action Action) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if action == ActionDelete || !action.Valid() {
		return fmt.Errorf("unsupported control action %q", action)
	}
	id, err := requireID(id)
	if err != nil {
		return err
	}
	path := "/api/containers/" + url.PathEscape(id) + "/" + string(action)
	return c.do(ctx, c.timeouts.Lifecycle, http.MethodPost, path, nil, nil)
}

// Remove stops and destroys a container.
func (c *Client) Remove(ctx context.Context, id string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	id, err := requireID(id)
	if err != nil {
		return err
	}
	return c.do(ctx, c.timeouts.Lifecycle, http.MethodDelete, "/api/launch/"+url.PathEscape(id), nil, nil)
}

// Logs retrieves the tail of a container's logs.
func (c *Client) Logs(ctx context.Context, id string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	id, err := requireID(id)
	if err != nil {
		return "", err
	}
	var payload LogsResponse
	if err := c.do(ctx, c.timeouts.Diagnostic, http.MethodGet, "/api/containers/"+url.PathEscape(id)+"/logs", nil, &payload); err != nil {
		return "", err
	}
	return payload.Logs, nil
}

// Inspect retrieves detailed container information.
func (c *Client) Inspect(ctx context.Context, id string) (Details, error) {
	if c == nil {
		return Details{}, fmt.Errorf("client is nil")
	}
	id, err := requireID(id)
	if err != nil {
		return Details{}, err
	}
	var payload InspectResponse
	if err := c.do(ctx, c.timeouts.Diagnostic, http.MethodGet, "/api/containers/"+url.PathEscape(id)+"/inspect", nil, &payload); err != nil {
		return Details{}, err
	}
	return payload.Details, nil
}

func (c *Client) do(ctx context.Context, timeout time.Duration, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, timeout, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, timeout time.Duration, method string, rel *url.URL, body, dest any) error {
	op := method + " " + rel.Path
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.log.WithFields(logrus.Fields{"op": op, "request_id": requestID})
	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Debug("request failed before response")
		return &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}
	log.WithFields(logrus.Fields{
		"status":  resp.StatusCode,
		"elapsed": time.Since(started).Round(time.Millisecond),
	}).Debug("request completed")

	var failure errorBody
	if len(bytes.TrimSpace(raw)) > 0 {
		// Success bodies are objects too, so this never fails on valid JSON.
		_ = json.Unmarshal(raw, &failure)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newBackendError(op, resp.StatusCode, strings.TrimSpace(failure.Error))
	}
	if msg := strings.TrimSpace(failure.Error); msg != "" {
		return newBackendError(op, resp.StatusCode, msg)
	}
	if dest == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func requireID(id string) (string, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return "", fmt.Errorf("container id required")
	}
	return trimmed, nil
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", apiURL)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
