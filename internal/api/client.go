// Package api implements the typed HTTP client for the Pro4Tech
// knowledge-assistant platform. It owns request building, bearer
// injection, and boundary validation of response payloads; it never
// mutates caller-owned state.
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

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/pro4tech/assistant/internal/apierr"
	"github.com/pro4tech/assistant/internal/auth"
)

// Client is a typed client for the remote platform API
type Client struct {
	baseURL  string
	auth     *auth.Context
	client   *http.Client
	validate *validator.Validate
	log      zerolog.Logger
}

// NewClient creates a platform API client. Every request carries the
// bearer token from the auth context and a bounded timeout.
func NewClient(baseURL string, authCtx *auth.Context, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		auth:     authCtx,
		client:   &http.Client{Timeout: timeout},
		validate: validator.New(),
		log:      log,
	}
}

// errorBody is the shape servers use for structured error responses
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do issues one authenticated request and decodes the response into out
// (skipped when out is nil). Aborts with ErrUnauthenticated before any
// request is issued when no token is available.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	token, err := c.auth.Token()
	if err != nil {
		return err
	}
	return c.send(ctx, method, path, query, body, out, token)
}

// doPublic issues a request to an endpoint that does not require
// authentication. The token still rides along when one exists.
func (c *Client) doPublic(ctx context.Context, method, path string, query url.Values, body, out any) error {
	token, _ := c.auth.Token()
	return c.send(ctx, method, path, query, body, out, token)
}

// send is the request core. Non-2xx statuses become RemoteError with the
// server's message when one is present; transport failures become
// NetworkError; undecodable success bodies become MalformedResponseError.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body, out any, token string) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &apierr.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apierr.NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg("remote request refused")
		return &apierr.RemoteError{Status: resp.StatusCode, Message: extractMessage(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &apierr.MalformedResponseError{Reason: fmt.Sprintf("%s %s: %v", method, path, err)}
	}
	return nil
}

// extractMessage pulls a human-readable message from an error response
// body, which may be structured JSON or plain text.
func extractMessage(data []byte) string {
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err == nil {
		if eb.Error != "" {
			return eb.Error
		}
		if eb.Message != "" {
			return eb.Message
		}
	}
	return strings.TrimSpace(string(data))
}

// checkEach validates every record of a decoded list at the API boundary
// so malformed payloads surface as MalformedResponseError instead of
// propagating zero values into the UI.
func checkEach[T any](c *Client, path string, records []T) error {
	for i := range records {
		if err := c.validate.Struct(&records[i]); err != nil {
			return &apierr.MalformedResponseError{
				Reason: fmt.Sprintf("%s: record %d: %v", path, i, err),
			}
		}
	}
	return nil
}
