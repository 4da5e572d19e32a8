// Package bsky provides a read-only client for the feed endpoints of the
// app.bsky XRPC API.
package bsky

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/gauthierbraillon/skytune/internal/tuner"
)

const defaultBaseURL = "https://public.api.bsky.app"

// WhatsHotFeedURI is the feed generator behind the "What's hot" feed.
const WhatsHotFeedURI = "at://did:plc:z72i7hdynmk6r22z27h6tvur/app.bsky.feed.generator/whats-hot"

var errNotAuthenticated = errors.New("not authenticated (run 'skytune session set')")

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL sets a custom service URL (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client reads feed pages from an app.bsky service.
type Client struct {
	accessToken string
	baseURL     string
	httpClient  HTTPClient
	logger      *zap.Logger
}

// NewClient creates a client. accessToken may be empty for public feeds.
func NewClient(accessToken string, opts ...ClientOption) *Client {
	c := &Client{
		accessToken: accessToken,
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{},
		logger:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Page is one page of a feed and the cursor for the next one. An empty
// cursor means the feed is exhausted.
type Page struct {
	Items  []*tuner.FeedViewPost
	Cursor string
}

// GetTimeline fetches a page of the authenticated user's home timeline.
func (c *Client) GetTimeline(ctx context.Context, cursor string, limit int) (*Page, error) {
	if c.accessToken == "" {
		return nil, errNotAuthenticated
	}
	return c.getPage(ctx, "app.bsky.feed.getTimeline", url.Values{}, cursor, limit)
}

// GetAuthorFeed fetches a page of posts and reposts by actor (handle or DID).
func (c *Client) GetAuthorFeed(ctx context.Context, actor, cursor string, limit int) (*Page, error) {
	if actor == "" {
		return nil, errors.New("author feed requires an actor")
	}
	return c.getPage(ctx, "app.bsky.feed.getAuthorFeed", url.Values{"actor": {actor}}, cursor, limit)
}

// GetFeed fetches a page of a custom feed generator.
func (c *Client) GetFeed(ctx context.Context, feedURI, cursor string, limit int) (*Page, error) {
	if feedURI == "" {
		return nil, errors.New("custom feed requires a feed URI")
	}
	return c.getPage(ctx, "app.bsky.feed.getFeed", url.Values{"feed": {feedURI}}, cursor, limit)
}

func (c *Client) getPage(ctx context.Context, method string, params url.Values, cursor string, limit int) (*Page, error) {
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	endpoint := fmt.Sprintf("%s/xrpc/%s?%s", c.baseURL, method, params.Encode())
	body, err := c.doRequest(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	page, err := ParsePage(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s response: %w", method, err)
	}

	c.logger.Debug("fetched feed page",
		zap.String("method", method),
		zap.Int("items", len(page.Items)),
		zap.Bool("has_more", page.Cursor != ""),
	)
	return page, nil
}

// ParsePage decodes a feed response body such as a saved getTimeline reply.
func ParsePage(r io.Reader) (*Page, error) {
	var response feedResponse
	if err := json.NewDecoder(r).Decode(&response); err != nil {
		return nil, err
	}

	items := response.Feed
	if items == nil {
		items = []*tuner.FeedViewPost{}
	}
	return &Page{Items: items, Cursor: response.Cursor}, nil
}

func (c *Client) doRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, handleAPIError(resp.StatusCode, body)
	}

	return body, nil
}

// API response types (private - implementation detail)

type feedResponse struct {
	Cursor string                `json:"cursor"`
	Feed   []*tuner.FeedViewPost `json:"feed"`
}

type xrpcError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func handleAPIError(statusCode int, body []byte) error {
	var detail xrpcError
	_ = json.Unmarshal(body, &detail)

	var msg string
	switch statusCode {
	case http.StatusBadRequest:
		msg = "feed API rejected the request"
	case http.StatusUnauthorized:
		msg = "feed API authentication failed - please run 'skytune session set' with a fresh token"
	case http.StatusForbidden:
		msg = "feed API access denied"
	case http.StatusTooManyRequests:
		msg = "feed API rate limit exceeded - please try again later"
	case http.StatusServiceUnavailable:
		msg = "feed API temporarily unavailable - please try again in a few minutes"
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusGatewayTimeout:
		msg = "feed API server error - please try again later"
	default:
		msg = fmt.Sprintf("feed API error (status %d)", statusCode)
	}

	if detail.Message != "" {
		return fmt.Errorf("%s: %s", msg, detail.Message)
	}
	if detail.Error != "" {
		return fmt.Errorf("%s: %s", msg, detail.Error)
	}
	return errors.New(msg)
}
