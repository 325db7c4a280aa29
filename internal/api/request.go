package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// APIError represents an error response from the upstream API.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream api error %d: %s", e.StatusCode, e.Message)
}

// doRequest performs a GET against the given host and path.
func (c *Client) doRequest(ctx context.Context, host, path string, query url.Values) ([]byte, error) {
	fullURL := host + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "url", fullURL, "err", err)
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		c.logger.Debug("request rejected", "url", fullURL, "status", resp.StatusCode)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       body,
		}
	}

	return body, nil
}

// getGamma performs a GET against the gamma host and decodes the result.
func (c *Client) getGamma(ctx context.Context, path string, query url.Values, result any) error {
	return c.get(ctx, c.gammaURL, path, query, result)
}

// getData performs a GET against the data host and decodes the result.
func (c *Client) getData(ctx context.Context, path string, query url.Values, result any) error {
	return c.get(ctx, c.dataURL, path, query, result)
}

func (c *Client) get(ctx context.Context, host, path string, query url.Values, result any) error {
	body, err := c.doRequest(ctx, host, path, query)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}
