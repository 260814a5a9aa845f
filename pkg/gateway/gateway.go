// Package gateway issues the remote operations of the diary service and
// normalises their outcomes: every failure (transport, non-2xx status,
// success=false, undecodable body) comes back as a *Error.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"tableflip.dev/yourdiary/pkg/observability"
)

// Operation names, also used as metric labels.
const (
	OpSuggestions  = "get_suggestions"
	OpSaveEntry    = "send_message"
	OpCreateTask   = "add_task"
	OpUpdateStatus = "update_task_status"
	OpDeleteTask   = "delete_task"
	OpListTasks    = "list_tasks"
)

// Gateway is the remote contract consumed by the client core.
type Gateway interface {
	Suggestions(ctx context.Context, req SuggestionRequest) (SuggestionResponse, error)
	SaveEntry(ctx context.Context, message string) (SaveEntryResponse, error)
	CreateTask(ctx context.Context, task NewTask) error
	UpdateTaskStatus(ctx context.Context, id TaskID, status TaskStatus) error
	DeleteTask(ctx context.Context, id TaskID) error
	ListTasks(ctx context.Context) ([]Task, error)
}

// Client talks JSON over HTTP to the diary service.
type Client struct {
	base    *url.URL
	http    *http.Client
	cookie  string
	metrics *observability.Metrics
}

var _ Gateway = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithSessionCookie forwards an existing login session.
func WithSessionCookie(value string) Option {
	return func(c *Client) {
		c.cookie = strings.TrimSpace(value)
	}
}

// WithMetrics records call counts and latency.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New returns a Client for the service rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("gateway: parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("gateway: server url %q must be http or https", baseURL)
	}
	c := &Client{
		base: u,
		http: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Suggestions(ctx context.Context, req SuggestionRequest) (SuggestionResponse, error) {
	var resp SuggestionResponse
	if err := c.do(ctx, OpSuggestions, http.MethodPost, "/get_suggestions", req, &resp); err != nil {
		return SuggestionResponse{Sequence: req.Sequence}, err
	}
	resp.Sequence = req.Sequence
	return resp, nil
}

func (c *Client) SaveEntry(ctx context.Context, message string) (SaveEntryResponse, error) {
	var resp SaveEntryResponse
	err := c.do(ctx, OpSaveEntry, http.MethodPost, "/send_message", saveEntryRequest{Message: message}, &resp)
	return resp, err
}

func (c *Client) CreateTask(ctx context.Context, task NewTask) error {
	return c.do(ctx, OpCreateTask, http.MethodPost, "/add_task", task, nil)
}

func (c *Client) UpdateTaskStatus(ctx context.Context, id TaskID, status TaskStatus) error {
	return c.do(ctx, OpUpdateStatus, http.MethodPost, "/update_task_status", updateStatusRequest{TaskID: id, Status: status}, nil)
}

func (c *Client) DeleteTask(ctx context.Context, id TaskID) error {
	return c.do(ctx, OpDeleteTask, http.MethodPost, "/delete_task", deleteTaskRequest{TaskID: id}, nil)
}

func (c *Client) ListTasks(ctx context.Context) ([]Task, error) {
	var resp listTasksResponse
	if err := c.do(ctx, OpListTasks, http.MethodGet, "/api/tasks", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	requestID := uuid.NewString()
	ctx = observability.WithRequestID(ctx, requestID)
	log := observability.LoggerFromContext(ctx).With("op", op)

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return &Error{Op: op, Err: fmt.Errorf("marshal request: %w", err)}
		}
		body = bytes.NewReader(payload)
	}

	endpoint := c.base.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return &Error{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.cookie != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: c.cookie})
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveCall(op, outcome(err), time.Since(start))
		log.Debug("gateway call failed", "err", err)
		return &Error{Op: op, Err: fmt.Errorf("send request: %w", err)}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	elapsed := time.Since(start)
	log.Debug("gateway call", "method", method, "path", path, "status", res.StatusCode, "elapsed", elapsed)
	if err != nil {
		c.metrics.ObserveCall(op, "error", elapsed)
		return &Error{Op: op, Status: res.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	// Error bodies may be plain text; the raw body is used then.
	var env envelope
	envErr := json.Unmarshal(raw, &env)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		c.metrics.ObserveCall(op, "status", elapsed)
		e := &Error{Op: op, Status: res.StatusCode, Message: env.Error}
		if e.Message == "" {
			e.Message = strings.TrimSpace(string(raw[:min(len(raw), 256)]))
		}
		if res.StatusCode == http.StatusUnauthorized {
			e.Err = ErrUnauthorized
		}
		return e
	}
	if envErr != nil {
		c.metrics.ObserveCall(op, "decode", elapsed)
		return &Error{Op: op, Status: res.StatusCode, Err: fmt.Errorf("decode response: %w", envErr)}
	}
	if env.Success != nil && !*env.Success {
		c.metrics.ObserveCall(op, "rejected", elapsed)
		return &Error{Op: op, Status: res.StatusCode, Message: env.Error, Err: ErrRejected}
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			c.metrics.ObserveCall(op, "decode", elapsed)
			return &Error{Op: op, Status: res.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	c.metrics.ObserveCall(op, "ok", elapsed)
	return nil
}

func outcome(err error) string {
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return "transport"
}
