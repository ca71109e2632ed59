// Package client fetches decision trees from the tic-tac-toe search service
// and loads saved tree payloads from disk.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"treeviz/core"
)

// ErrServiceStatus is returned when the service answers with a non-2xx code
// or a non-success status field.
var ErrServiceStatus = errors.New("search service error")

// ErrBadPlayer is returned for a player other than "X", "O" or empty.
var ErrBadPlayer = errors.New("player must be X or O")

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// DefaultTimeout bounds a single fetch.
const DefaultTimeout = 30 * time.Second

const maxBody = 64 << 20

// TreeRequest selects the search variant. An empty Player lets the service
// pick the side to move.
type TreeRequest struct {
	UseAlphaBeta bool   `json:"use_alpha_beta"`
	Player       string `json:"player,omitempty"`
}

func (r TreeRequest) key() string {
	return fmt.Sprintf("%t/%s", r.UseAlphaBeta, r.Player)
}

// Validate checks the player field.
func (r TreeRequest) Validate() error {
	switch r.Player {
	case "", "X", "O":
		return nil
	}
	return fmt.Errorf("%w: %q", ErrBadPlayer, r.Player)
}

// Client talks to the search service.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.SugaredLogger
	group   singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a client for the service rooted at baseURL, e.g.
// "http://localhost:5000/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		log:     zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// DecisionTree requests the search tree for the current game position.
// Concurrent calls with the same request share one HTTP round trip.
func (c *Client) DecisionTree(ctx context.Context, req TreeRequest) (*core.Document, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	v, err, shared := c.group.Do(req.key(), func() (any, error) {
		return c.fetch(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.log.Debugw("decision tree fetch shared", "key", req.key())
	}
	return v.(*core.Document), nil
}

func (c *Client) fetch(ctx context.Context, req TreeRequest) (*core.Document, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := c.baseURL + "/decision_tree"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	id := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, id)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Errorw("decision tree request failed", "request_id", id, "url", url, "error", err)
		return nil, fmt.Errorf("POST %s: %w", url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warnw("decision tree request rejected", "request_id", id, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: HTTP %d", ErrServiceStatus, resp.StatusCode)
	}

	doc, err := core.ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if doc.Status != "" && doc.Status != "success" {
		msg := doc.Message
		if msg == "" {
			msg = doc.Status
		}
		return nil, fmt.Errorf("%w: %s", ErrServiceStatus, msg)
	}

	c.log.Infow("decision tree fetched",
		"request_id", id,
		"nodes", doc.Tree.Root.Count(),
		"max_depth", doc.Tree.MaxDepth,
		"elapsed", time.Since(start),
	)
	return doc, nil
}

// LoadFile reads a saved tree payload in either accepted form.
func LoadFile(path string) (*core.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tree file: %w", err)
	}
	doc, err := core.ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
