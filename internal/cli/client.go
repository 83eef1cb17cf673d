package cli

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client is an HTTP client for the API
type Client struct {
	http *resty.Client
}

// NewClient creates a new API client
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(strings.TrimSuffix(baseURL, "/")).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
	c.SetToken(token)
	return c
}

// SetToken updates the client's token
func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(strings.TrimSpace(token))
}

// APIError represents an error response from the API
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an API error
type ErrorResponse struct {
	Error APIError `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

// Do performs an HTTP request, decoding a JSON body into result
func (c *Client) Do(ctx context.Context, method, path string, body, result any) error {
	var errResp ErrorResponse
	req := c.http.R().SetContext(ctx).SetError(&errResp)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	if resp.IsError() {
		if errResp.Error.Code != "" {
			errResp.Error.Status = resp.StatusCode()
			return &errResp.Error
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	return nil
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, path string, result any) error {
	return c.Do(ctx, http.MethodGet, path, nil, result)
}

// Post performs a POST request
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	return c.Do(ctx, http.MethodPost, path, body, result)
}

// Delete performs a DELETE request
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Download fetches a binary body and the filename the server suggests
func (c *Client) Download(ctx context.Context, path string) ([]byte, string, error) {
	var errResp ErrorResponse
	resp, err := c.http.R().SetContext(ctx).SetError(&errResp).Get(path)
	if err != nil {
		return nil, "", fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		if errResp.Error.Code != "" {
			errResp.Error.Status = resp.StatusCode()
			return nil, "", &errResp.Error
		}
		return nil, "", fmt.Errorf("HTTP %d", resp.StatusCode())
	}

	filename := ""
	if _, params, err := mime.ParseMediaType(resp.Header().Get("Content-Disposition")); err == nil {
		filename = params["filename"]
	}
	return resp.Body(), filename, nil
}
