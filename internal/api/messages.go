package api

import (
	"context"
	"net/http"

	"github.com/pro4tech/assistant/internal/apierr"
	"github.com/pro4tech/assistant/internal/domain"
)

type sendResponse struct {
	Response string `json:"response"`
}

// SendMessage exchanges one user turn for the bot's answer
func (c *Client) SendMessage(ctx context.Context, req domain.SendRequest) (string, error) {
	var resp sendResponse
	if err := c.do(ctx, http.MethodPost, "/mensagens", nil, req, &resp); err != nil {
		return "", err
	}
	if resp.Response == "" {
		return "", &apierr.MalformedResponseError{Reason: "/mensagens: empty response field"}
	}
	return resp.Response, nil
}

var _ domain.Messenger = (*Client)(nil)
