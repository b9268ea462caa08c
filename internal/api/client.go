// Package api is the typed gateway to the ordiaa REST backend. Every call
// carries the session's bearer token; a 401/403 on an authenticated call
// invalidates the session.
package api

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

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/julianstephens/ordiaa/internal/constants"
	apperrors "github.com/julianstephens/ordiaa/internal/errors"
	"github.com/julianstephens/ordiaa/internal/logger"
	"github.com/julianstephens/ordiaa/internal/session"
)

const genericAPIError = "API Error"

type Client struct {
	baseURL string
	http    *http.Client
	session *session.Session
	log     *log.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets a per-request timeout. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Transport: c.http.Transport, Timeout: d}
		}
	}
}

func New(baseURL string, sess *session.Session, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = constants.DefaultAPIURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		session: sess,
		log:     logger.With("component", "api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes one call; auth=false is used by login/signup/health.
type request struct {
	method string
	path   string
	query  url.Values
	body   io.Reader
	ctype  string
	auth   bool
}

func jsonRequest(method, path string, payload any) (request, error) {
	req := request{method: method, path: path, auth: true, ctype: "application/json"}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return request{}, fmt.Errorf("failed to encode request body: %w", err)
		}
		req.body = bytes.NewReader(data)
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, r.body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if r.ctype != "" {
		req.Header.Set("Content-Type", r.ctype)
	}
	if r.auth {
		req.Header.Set("Authorization", "Bearer "+c.session.Token())
	}
	reqID := uuid.NewString()
	req.Header.Set(constants.RequestIDHeader, reqID)

	c.log.Debug("Request", "method", r.method, "path", r.path, "request_id", reqID)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", apperrors.ErrTransport, r.method, r.path, err)
	}
	defer resp.Body.Close()
	c.log.Debug("Response", "status", resp.StatusCode, "request_id", reqID)

	return c.handleResponse(resp, r, out)
}

func (c *Client) handleResponse(resp *http.Response, r request, out any) error {
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		if r.auth {
			c.session.Invalidate(session.ReasonExpired)
			return fmt.Errorf("%s %s: %w", r.method, r.path, apperrors.ErrUnauthorized)
		}
		return &apperrors.APIError{Status: resp.StatusCode, Message: detail(resp.Body)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apperrors.APIError{Status: resp.StatusCode, Message: detail(resp.Body)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", r.method, r.path, err)
	}
	return nil
}

// detail extracts FastAPI's "detail" field. Validation errors carry a list
// whose first "msg" is used.
func detail(body io.Reader) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil || len(payload.Detail) == 0 {
		return genericAPIError
	}

	var msg string
	if err := json.Unmarshal(payload.Detail, &msg); err == nil && msg != "" {
		return msg
	}
	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &list); err == nil && len(list) > 0 && list[0].Msg != "" {
		return list[0].Msg
	}
	return genericAPIError
}

// Health checks the unauthenticated health endpoint.
func (c *Client) Health(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/health"}, &out); err != nil {
		return err
	}
	if out.Status != "healthy" {
		return fmt.Errorf("unexpected health status %q", out.Status)
	}
	return nil
}
