// Package notion is a minimal client for the Notion database query API.
package notion

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

	"github.com/starford/notionsite/internal/apperr"
)

const (
	DefaultBaseURL = "https://api.notion.com"
	DefaultVersion = "2022-06-28"
)

// Client issues authenticated requests against the Notion API.
type Client struct {
	baseURL    string
	token      string
	version    string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at another API root (tests, proxies).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithVersion sets the Notion-Version header.
func WithVersion(v string) ClientOption {
	return func(c *Client) {
		c.version = v
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient returns a client authenticating with token.
func NewClient(token string, opts ...ClientOption) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, &apperr.ConfigError{Err: errors.New("notion: token is required")}
	}
	c := &Client{
		baseURL:    DefaultBaseURL,
		token:      token,
		version:    DefaultVersion,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// errorBody is the JSON shape of an API error response.
type errorBody struct {
	Object  string `json:"object"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// QueryDatabase runs one query against databaseID and returns the decoded
// first page of results. It does not follow next_cursor.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, req QueryRequest) (*QueryResponse, error) {
	if strings.TrimSpace(databaseID) == "" {
		return nil, &apperr.ConfigError{Err: errors.New("notion: database id is required")}
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("notion: encode query: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/databases/%s/query", c.baseURL, url.PathEscape(databaseID))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("notion: build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("Notion-Version", c.version)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &apperr.TransportError{Op: "query database", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperr.TransportError{Op: "read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		remoteErr := &apperr.RemoteError{StatusCode: resp.StatusCode, Body: string(body)}
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil && eb.Object == "error" {
			remoteErr.Code = eb.Code
			remoteErr.Message = eb.Message
		}
		return nil, remoteErr
	}

	var out *QueryResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &apperr.ParseError{Err: err}
	}
	if out == nil {
		return nil, &apperr.ParseError{Err: errors.New("notion: empty response body")}
	}
	return out, nil
}
