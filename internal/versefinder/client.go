package versefinder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// maxResponseBytes caps how much of a reply is read; a full answer of ten
// verses is a few kilobytes.
const maxResponseBytes = 1 << 20

// Client sends verse lookups to a chat-completions endpoint.
type Client struct {
	// HTTPClient performs the call. Any deadline is the HTTP client's or the
	// context's; the Client adds none. Nil means http.DefaultClient.
	HTTPClient *http.Client
	// Endpoint overrides DefaultEndpoint when non-empty.
	Endpoint string
}

// NewClient returns a Client using httpClient against endpoint.
func NewClient(httpClient *http.Client, endpoint string) *Client {
	return &Client{
		HTTPClient: httpClient,
		Endpoint:   endpoint,
	}
}

// FindVerses asks the model for verses on topic. It blocks for one round trip
// and always returns a displayable result.
func (c *Client) FindVerses(ctx context.Context, topic, apiKey string) QueryResult {
	built := BuildRequest(topic, apiKey)
	if c.Endpoint != "" {
		built.URL = c.Endpoint
	}

	req, err := built.HTTPRequest(ctx)
	if err != nil {
		return c.logResult(transportFailure(0, err, ""), len(topic), 0)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return c.logResult(transportFailure(0, fmt.Errorf("failed to call chat API: %w", err), ""), len(topic), 0)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return c.logResult(transportFailure(resp.StatusCode, fmt.Errorf("failed to read response: %w", err), ""), len(topic), resp.StatusCode)
	}
	if len(body) > maxResponseBytes {
		err := fmt.Errorf("response exceeds %d bytes", maxResponseBytes)
		return c.logResult(transportFailure(resp.StatusCode, err, ""), len(topic), resp.StatusCode)
	}

	return c.logResult(Interpret(resp.StatusCode, body), len(topic), resp.StatusCode)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}
	return c.HTTPClient
}

func (c *Client) logResult(result QueryResult, topicLen, status int) QueryResult {
	switch {
	case result.Err == nil:
		slog.Info("verse lookup succeeded", "topic_len", topicLen, "status", status, "verses", len(result.Verses))
	case errors.Is(result.Err, ErrNoVerses):
		slog.Info("verse lookup returned no verses", "topic_len", topicLen, "status", status)
	default:
		slog.Warn("verse lookup failed", "topic_len", topicLen, "status", status, "error", result.Err)
	}
	return result
}
