package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pro4tech/assistant/internal/domain"
)

// ListHistory returns the current user's stored sessions. The user id is
// resolved from the auth context before any request is issued; a missing
// identity aborts with ErrUnauthenticated.
func (c *Client) ListHistory(ctx context.Context) ([]domain.HistoryEntry, error) {
	userID, err := c.auth.UserID()
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("usuario_id", strconv.Itoa(userID))

	var entries []domain.HistoryEntry
	if err := c.do(ctx, http.MethodGet, "/historico/chat", query, nil, &entries); err != nil {
		return nil, err
	}
	if err := checkEach(c, "/historico/chat", entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteSession removes one stored session by its storage id
func (c *Client) DeleteSession(ctx context.Context, storageID string) error {
	return c.do(ctx, http.MethodDelete, "/chats/"+url.PathEscape(storageID), nil, nil, nil)
}

var _ domain.HistoryRepository = (*Client)(nil)
