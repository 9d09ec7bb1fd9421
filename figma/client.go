// Package figma implements the design extractor: a Figma REST API client and
// the reduction of a raw file tree into a Document of pages, frame trees, and
// key UI elements.
package figma

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Config configures the Figma client.
type Config struct {
	// BaseURL of the Figma REST API. Default: https://api.figma.com/v1.
	BaseURL string
	// Timeout for the file endpoint. Default: 300s (file trees can be large).
	Timeout time.Duration
	// ShortTimeout for the nodes and images endpoints, whose responses are
	// small. Default: 30s.
	ShortTimeout time.Duration
	// MaxBytes caps the response body size. Default: 50MB.
	MaxBytes int64
	// UserAgent sent with requests.
	UserAgent string
	// InsecureSkipVerify disables TLS certificate verification.
	// Verification is the default; this must be opted into explicitly.
	InsecureSkipVerify bool
	// Logger for debug messages.
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.figma.com/v1"
	}
	if c.Timeout <= 0 {
		c.Timeout = 300 * time.Second
	}
	if c.ShortTimeout <= 0 {
		c.ShortTimeout = 30 * time.Second
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 50 * 1024 * 1024
	}
	if c.UserAgent == "" {
		c.UserAgent = "figbdd/1.0"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Client talks to the Figma REST API with a personal access token.
type Client struct {
	token  string
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

// NewClient creates a Figma client.
func NewClient(token string, cfg Config) *Client {
	cfg.defaults()
	transport := http.DefaultTransport
	if cfg.InsecureSkipVerify {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		transport = t
	}
	return &Client{
		token: token,
		cfg:   cfg,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		logger: cfg.Logger,
	}
}

// RawNode is one node of the raw Figma document tree, decoded into a typed
// record instead of an untyped map.
type RawNode struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Type         string            `json:"type"`
	Visible      *bool             `json:"visible,omitempty"`
	Characters   string            `json:"characters,omitempty"`
	ComponentID  string            `json:"componentId,omitempty"`
	Style        *RawTextStyle     `json:"style,omitempty"`
	Box          *RawBoundingBox   `json:"absoluteBoundingBox,omitempty"`
	Interactions []json.RawMessage `json:"interactions,omitempty"`
	Children     []RawNode         `json:"children,omitempty"`
}

// RawTextStyle carries the subset of Figma text style the extractor uses.
type RawTextStyle struct {
	FontSize float64 `json:"fontSize"`
}

// RawBoundingBox is the absolute bounding box as the API reports it.
type RawBoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// File is the raw Figma file response.
type File struct {
	Name     string  `json:"name"`
	Document RawNode `json:"document"`
}

// File fetches a file's document tree by file ID.
// No retries: a failed request surfaces immediately.
func (c *Client) File(ctx context.Context, fileID string) (*File, error) {
	body, err := c.get(ctx, "/files/"+url.PathEscape(fileID), nil)
	if err != nil {
		return nil, err
	}
	var f File
	if err := json.Unmarshal(body, &f); err != nil {
		return nil, fmt.Errorf("figma: decode file: %w", err)
	}
	return &f, nil
}

// FileNodes fetches specific nodes of a file by their IDs. The response is
// small, so the short timeout applies.
func (c *Client) FileNodes(ctx context.Context, fileID string, nodeIDs []string) (map[string]RawNode, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ShortTimeout)
	defer cancel()

	q := url.Values{"ids": {strings.Join(nodeIDs, ",")}}
	body, err := c.get(ctx, "/files/"+url.PathEscape(fileID)+"/nodes", q)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Nodes map[string]struct {
			Document RawNode `json:"document"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("figma: decode nodes: %w", err)
	}
	out := make(map[string]RawNode, len(resp.Nodes))
	for id, n := range resp.Nodes {
		out[id] = n.Document
	}
	return out, nil
}

// Images fetches rendered image URLs for the given node IDs. The response is
// small, so the short timeout applies.
func (c *Client) Images(ctx context.Context, fileID string, nodeIDs []string, format string, scale float64) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ShortTimeout)
	defer cancel()

	if format == "" {
		format = "png"
	}
	if scale <= 0 {
		scale = 1.0
	}
	q := url.Values{
		"ids":    {strings.Join(nodeIDs, ",")},
		"format": {format},
		"scale":  {fmt.Sprintf("%g", scale)},
	}
	body, err := c.get(ctx, "/images/"+url.PathEscape(fileID), q)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Images map[string]string `json:"images"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("figma: decode images: %w", err)
	}
	return resp.Images, nil
}

// Ping checks token validity against the /me endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, "/me", nil)
	return err
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	u := c.cfg.BaseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("figma: new request: %w", err)
	}
	req.Header.Set("X-Figma-Token", c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	c.logger.Debug("figma request", "path", path)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("figma: http get: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w (http %d)", ErrAuth, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w (http 404)", ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("figma: http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBytes))
	if err != nil {
		return nil, fmt.Errorf("figma: read body: %w", err)
	}
	return body, nil
}
