// Package httpstore implements the service.Store interface over the task
// store's REST contract.
package httpstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"tasktracker/internal/config"
	apperrors "tasktracker/internal/errors"
	"tasktracker/internal/service"
)

const (
	// tasksPath is the collection endpoint, relative to the base URL.
	tasksPath = "tasks"

	// maxBodySize caps how much of a response body is read.
	maxBodySize = 4 << 20

	// RequestIDHeader carries a per-request id for correlating store logs.
	RequestIDHeader = "X-Request-ID"
)

// Client implements service.Store using the task store's HTTP API.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	log     *slog.Logger
}

// New creates a client for the store at cfg.BaseURL.
func New(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	c, err := NewWithHTTPClient(cfg.BaseURL, http.DefaultClient, logger)
	if err != nil {
		return nil, err
	}
	c.timeout = cfg.Timeout
	return c, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		base: base,
		http: httpClient,
		log:  logger.With("component", "httpstore"),
	}, nil
}

// taskPayload is the request body for create and update.
type taskPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// listResponse is the GET /tasks body: each task is an [id, title] pair.
// Tasks is nil when the key is absent or null.
type listResponse struct {
	Tasks *[][]json.RawMessage `json:"tasks"`
}

type createResponse struct {
	TaskID *opaqueID `json:"task_id"`
}

// ListTasks returns the full task collection in store order.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var resp listResponse
	if err := c.do(ctx, http.MethodGet, nil, &resp, tasksPath); err != nil {
		return nil, err
	}

	if resp.Tasks == nil {
		return nil, apperrors.DecodeError("GET /tasks", errors.New("response has no tasks list"))
	}

	result := make([]service.Task, 0, len(*resp.Tasks))
	for i, pair := range *resp.Tasks {
		task, err := decodePair(pair)
		if err != nil {
			return nil, apperrors.DecodeError("GET /tasks", err).WithContext("index", i)
		}
		result = append(result, task)
	}
	return result, nil
}

// CreateTask creates a task and returns the id assigned by the store.
func (c *Client) CreateTask(ctx context.Context, title, description string) (string, error) {
	var resp createResponse
	body := taskPayload{Title: title, Description: description}
	if err := c.do(ctx, http.MethodPost, body, &resp, tasksPath); err != nil {
		return "", err
	}
	if resp.TaskID == nil {
		return "", apperrors.DecodeError("POST /tasks", errors.New("response has no task_id"))
	}
	if *resp.TaskID == "" {
		return "", apperrors.DecodeError("POST /tasks", errors.New("response has an empty task_id"))
	}
	return string(*resp.TaskID), nil
}

// UpdateTask replaces the title and description of a task.
func (c *Client) UpdateTask(ctx context.Context, id, title, description string) error {
	if id == "" {
		return emptyIDError()
	}
	body := taskPayload{Title: title, Description: description}
	return c.do(ctx, http.MethodPut, body, nil, tasksPath, escapeSegment(id))
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if id == "" {
		return emptyIDError()
	}
	return c.do(ctx, http.MethodDelete, nil, nil, tasksPath, escapeSegment(id))
}

// emptyIDError rejects a call that would otherwise address the collection.
func emptyIDError() error {
	return apperrors.ValidationError("task id must not be empty")
}

// escapeSegment escapes id as a single path segment. Dot segments are
// percent-encoded so they are not resolved against the parent path.
func escapeSegment(id string) string {
	switch id {
	case ".":
		return "%2E"
	case "..":
		return "%2E%2E"
	}
	return url.PathEscape(id)
}

// endpoint appends escaped segments to the base path without cleaning it.
func (c *Client) endpoint(segments ...string) *url.URL {
	u := *c.base
	raw := strings.TrimSuffix(c.base.EscapedPath(), "/")
	for _, seg := range segments {
		raw += "/" + seg
	}
	u.RawPath = raw
	u.Path, _ = url.PathUnescape(raw)
	return &u
}

// do sends one request. segments must already be path-escaped.
// Any transport error, non-2xx status or undecodable body is returned as a
// structured remote error. A nil out skips decoding the body.
func (c *Client) do(ctx context.Context, method string, body any, out any, segments ...string) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	endpoint := c.endpoint(segments...)
	op := method + " " + endpoint.EscapedPath()
	requestID := uuid.NewString()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return apperrors.InternalError("encode request", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return apperrors.InternalError("build request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.DebugContext(ctx, "store request failed", "op", op, "request_id", requestID, "error", err)
		return wrapTransportError(op, err).WithContext("request_id", requestID)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	c.log.DebugContext(ctx, "store request",
		"op", op,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", requestID,
	)
	if err != nil {
		return wrapTransportError(op, err).WithContext("request_id", requestID)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.StatusError(op, resp.StatusCode).WithContext("request_id", requestID)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.DecodeError(op, err).WithContext("request_id", requestID)
	}
	return nil
}

// wrapTransportError turns a client error into a transport failure with a
// readable cause.
func wrapTransportError(op string, err error) *apperrors.Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.TransportError(op, errors.New("request timed out"))
	}
	if errors.Is(err, context.Canceled) {
		return apperrors.TransportError(op, errors.New("request cancelled"))
	}
	return apperrors.TransportError(op, err)
}

func decodePair(pair []json.RawMessage) (service.Task, error) {
	if len(pair) < 2 {
		return service.Task{}, fmt.Errorf("task entry has %d elements, want 2", len(pair))
	}
	var id opaqueID
	if err := json.Unmarshal(pair[0], &id); err != nil {
		return service.Task{}, err
	}
	if id == "" {
		return service.Task{}, errors.New("task id is empty")
	}
	var title string
	if err := json.Unmarshal(pair[1], &title); err != nil {
		return service.Task{}, fmt.Errorf("task %s: title: %w", id, err)
	}
	return service.Task{ID: string(id), Title: title}, nil
}

// opaqueID accepts a task id sent either as a JSON string or a JSON number.
type opaqueID string

func (id *opaqueID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = opaqueID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("task id must be a string or number, got %s", data)
	}
	if n == "" {
		return fmt.Errorf("task id must be a string or number, got %s", data)
	}
	*id = opaqueID(n.String())
	return nil
}
