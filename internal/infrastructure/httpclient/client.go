// Package httpclient implements the single reusable downstream caller. Every
// collaborator interaction (classify, create, read, update, delete) goes
// through one Call that normalizes the HTTP response into an Envelope, so the
// workflow layer branches on status and content alone, never on transport
// details.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/garrywilliams/cake/internal/domain/model"
)

// Client performs downstream HTTP calls.
type Client struct {
	http   *http.Client
	logger *zap.Logger
}

// NewClient creates a downstream caller. A zero timeout leaves the transport
// unbounded; the rendezvous wait in the task lane is bounded separately.
func NewClient(timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		http: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Call performs one HTTP request and normalizes the response. body, when
// non-nil, is sent as a JSON document; query values are appended to the URL.
// Transport failures and undecodable JSON bodies return an error.
func (c *Client) Call(ctx context.Context, method, url string, body interface{}, query map[string]string) (*model.Envelope, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if len(query) > 0 {
		q := req.URL.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("downstream call failed",
			zap.String("method", method),
			zap.String("url", url),
			zap.Error(err))
		return nil, fmt.Errorf("downstream call failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	envelope := &model.Envelope{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
	}

	if isJSON(resp.Header.Get("Content-Type")) {
		var content interface{}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &content); err != nil {
				return nil, fmt.Errorf("failed to decode response body: %w", err)
			}
		}
		envelope.Content = content
	} else {
		envelope.Content = string(raw)
	}

	return envelope, nil
}

func isJSON(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "application/json")
}

func flattenHeaders(h http.Header) map[string]string {
	headers := make(map[string]string, len(h))
	for k, values := range h {
		if len(values) > 0 {
			headers[k] = values[0]
		}
	}
	return headers
}
