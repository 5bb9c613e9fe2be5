// ABOUTME: HTTP client for the remote query-answering service
// ABOUTME: Sends a single text query as JSON and returns the reply or a classified failure

package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Failure classifications. The session manager treats every kind
// identically; the distinction exists for logging and tests.
var (
	// ErrBadStatus indicates a non-success HTTP status from the endpoint.
	ErrBadStatus = errors.New("answer endpoint returned non-success status")

	// ErrServiceError indicates an error payload embedded in an otherwise
	// successful response.
	ErrServiceError = errors.New("answer endpoint returned an error payload")

	// ErrMalformedReply indicates a response body that could not be decoded
	// or carried neither a reply nor an error.
	ErrMalformedReply = errors.New("answer endpoint returned a malformed reply")
)

// DefaultTimeout bounds a single query when the config does not set one.
const DefaultTimeout = 60 * time.Second

// askRequest is the wire format sent to the endpoint.
type askRequest struct {
	Message string `json:"message"`
}

// askResponse carries either a reply or an error field.
type askResponse struct {
	Reply string `json:"reply"`
	Error string `json:"error"`
}

// Client sends single text queries to a configured remote endpoint.
// No retry, no policy beyond the request timeout.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *slog.Logger
}

// New creates a client for the given endpoint URL. A zero timeout falls
// back to DefaultTimeout.
func New(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		logger:   slog.Default().With("component", "answer"),
	}
}

// Ask sends text to the endpoint and returns the reply. Every failure is
// returned as an error; none are retried here.
func (c *Client) Ask(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(askRequest{Message: text})
	if err != nil {
		return "", fmt.Errorf("encoding query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	var parsed askResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	if parsed.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrServiceError, parsed.Error)
	}
	if parsed.Reply == "" {
		return "", ErrMalformedReply
	}

	c.logger.Debug("query answered",
		"chars", len(parsed.Reply),
		"elapsed", time.Since(start))
	return parsed.Reply, nil
}
