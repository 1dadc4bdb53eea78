package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pro4tech/assistant/internal/apierr"
	"github.com/pro4tech/assistant/internal/auth"
	"github.com/pro4tech/assistant/internal/domain"
)

// State is the coordinator's position in its two-state machine
type State int

const (
	// StateSelecting holds the agent and history lists; no active session.
	StateSelecting State = iota
	// StateActive holds a session id, a selected agent, and the message log.
	StateActive
)

// deleteAllConcurrency caps the fan-out of bulk history deletion
const deleteAllConcurrency = 4

// placeholderSector is shown for a resumed session whose agent is not in
// the resolved directory yet. Display concern only.
const placeholderSector = "loading"

// DeleteResult reports the outcome of one entry in a bulk delete
type DeleteResult struct {
	Entry domain.HistoryEntry
	Err   error
}

// ChatCoordinator is the stateful core of the client: it owns the active
// session's message log, mediates between user input, the messaging
// endpoint, and the history repository, and decides when a session is new
// versus resumed. The selecting-state lists (assignable agents, history
// entries, directory) are owned here too; API clients only return data.
type ChatCoordinator struct {
	directory domain.AgentDirectory
	history   domain.HistoryRepository
	messenger domain.Messenger
	auth      *auth.Context
	log       zerolog.Logger

	mu      sync.Mutex
	state   State
	agents  []domain.Agent
	entries []domain.HistoryEntry
	catalog map[int]domain.Agent

	session *domain.ChatSession
	agent   domain.Agent
	sending bool
}

// NewChatCoordinator creates a coordinator in the Selecting state
func NewChatCoordinator(
	directory domain.AgentDirectory,
	history domain.HistoryRepository,
	messenger domain.Messenger,
	authCtx *auth.Context,
	log zerolog.Logger,
) *ChatCoordinator {
	return &ChatCoordinator{
		directory: directory,
		history:   history,
		messenger: messenger,
		auth:      authCtx,
		log:       log,
		state:     StateSelecting,
		catalog:   map[int]domain.Agent{},
	}
}

// RefreshAgents reloads the assignable agent list. On failure the list is
// left empty and the error is returned for the caller to surface; there
// is no automatic retry.
func (c *ChatCoordinator) RefreshAgents(ctx context.Context) error {
	agents, err := c.directory.ListAssigned(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to load assigned agents")
		c.mu.Lock()
		c.agents = nil
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.agents = agents
	c.mu.Unlock()
	return nil
}

// RefreshHistory reloads the stored-session list. Same failure policy as
// RefreshAgents.
func (c *ChatCoordinator) RefreshHistory(ctx context.Context) error {
	entries, err := c.history.ListHistory(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to load chat history")
		c.mu.Lock()
		c.entries = nil
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()
	return nil
}

// RefreshDirectory reloads the full agent directory used to resolve
// display metadata for history entries whose agent is outside the
// assigned set. Admin-only on the server; a refusal just leaves the
// placeholder fallback in effect.
func (c *ChatCoordinator) RefreshDirectory(ctx context.Context) error {
	agents, err := c.directory.ListAll(ctx)
	if err != nil {
		c.log.Debug().Err(err).Msg("full agent directory unavailable")
		return err
	}

	c.mu.Lock()
	for _, a := range agents {
		c.catalog[a.ID] = a
	}
	c.mu.Unlock()
	return nil
}

// State returns the current machine state
func (c *ChatCoordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Agents returns a copy of the assignable agent list
func (c *ChatCoordinator) Agents() []domain.Agent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Agent(nil), c.agents...)
}

// History returns a copy of the stored-session list
func (c *ChatCoordinator) History() []domain.HistoryEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.HistoryEntry(nil), c.entries...)
}

// Messages returns a copy of the active session's message log, empty in
// the Selecting state. The log itself is never aliased out.
func (c *ChatCoordinator) Messages() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	return append([]domain.Message(nil), c.session.Messages...)
}

// ActiveAgent returns the agent of the active session
func (c *ChatCoordinator) ActiveAgent() (domain.Agent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateActive {
		return domain.Agent{}, false
	}
	return c.agent, true
}

// SessionID returns the active session's id, empty when Selecting
func (c *ChatCoordinator) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.SessionID
}

// Sending reports whether a send is in flight
func (c *ChatCoordinator) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// StartSession begins a new session with the given agent: mints a fresh
// session id and seeds the log with the synthetic greeting.
func (c *ChatCoordinator) StartSession(agent domain.Agent) error {
	userID, err := c.auth.UserID()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateSelecting {
		return apierr.ErrSessionActive
	}

	c.session = &domain.ChatSession{
		SessionID: newSessionID(),
		UserID:    userID,
		AgentID:   agent.ID,
		Title:     agent.Subject,
		CreatedAt: time.Now(),
		Messages:  []domain.Message{domain.Greeting()},
	}
	c.agent = agent
	c.state = StateActive
	return nil
}

// ResumeSession reopens a stored session: the entry's chat id becomes the
// session id again and the stored turns are replayed after the greeting.
// The entry's turns are transformed into a fresh message sequence, never
// shared.
func (c *ChatCoordinator) ResumeSession(entry domain.HistoryEntry) error {
	userID, err := c.auth.UserID()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateSelecting {
		return apierr.ErrSessionActive
	}

	agent, ok := c.catalog[entry.AgentID]
	if !ok {
		agent = domain.Agent{ID: entry.AgentID, Sector: placeholderSector, Subject: entry.Title}
	}

	c.session = &domain.ChatSession{
		SessionID: entry.ChatID,
		UserID:    userID,
		AgentID:   entry.AgentID,
		Title:     entry.Title,
		CreatedAt: entry.CreatedAt,
		Messages:  replayTurns(entry.Turns),
	}
	c.agent = agent
	c.state = StateActive
	return nil
}

// LeaveSession returns to the Selecting state, discarding the in-memory
// log. When to invoke it is the caller's navigation decision.
func (c *ChatCoordinator) LeaveSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = nil
	c.agent = domain.Agent{}
	c.sending = false
	c.state = StateSelecting
}

// Send submits one user turn. Blank input (after trimming) is a no-op.
// The user message is appended optimistically before the request; on
// success the bot's answer is appended, on any failure the fixed fallback
// text is appended instead — send failures degrade in-band and are never
// returned to the caller as errors. Only precondition violations (no
// active session, a send already in flight, unauthenticated) are
// returned. The sending flag is cleared on every path.
func (c *ChatCoordinator) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	c.mu.Lock()
	if c.state != StateActive || c.session == nil {
		c.mu.Unlock()
		return apierr.ErrNoActiveSession
	}
	if c.sending {
		c.mu.Unlock()
		return apierr.ErrSendInFlight
	}

	c.sending = true
	sess := c.session
	req := domain.SendRequest{
		Question: text,
		ChatID:   sess.SessionID,
		UserID:   sess.UserID,
		AgentID:  sess.AgentID,
	}
	c.appendLocked(text, domain.SenderUser)
	c.mu.Unlock()

	reply, err := c.messenger.SendMessage(ctx, req)
	if err != nil {
		c.log.Error().Err(err).Str("session_id", req.ChatID).Msg("message send failed")
		reply = domain.SendFallbackText
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Late response after leaving or switching sessions: discard without
	// touching the sending flag, which now belongs to the new session.
	if c.session != sess {
		return nil
	}
	c.sending = false
	c.appendLocked(reply, domain.SenderBot)
	return nil
}

// DeleteEntry deletes one stored session remotely and, only on success,
// removes it from the local list. An id absent from the local list is a
// no-op. A remote failure leaves the list unchanged and is returned for
// the caller to surface.
func (c *ChatCoordinator) DeleteEntry(ctx context.Context, storageID string) error {
	c.mu.Lock()
	found := false
	for _, e := range c.entries {
		if e.StorageID == storageID {
			found = true
			break
		}
	}
	c.mu.Unlock()
	if !found {
		return nil
	}

	if err := c.history.DeleteSession(ctx, storageID); err != nil {
		c.log.Error().Err(err).Str("storage_id", storageID).Msg("failed to delete session")
		return err
	}

	c.mu.Lock()
	c.removeEntryLocked(storageID)
	c.mu.Unlock()
	return nil
}

// DeleteAll deletes every stored session with bounded concurrency and
// reports a result per entry. Only entries whose delete succeeded are
// removed locally; the failed subset stays visible.
func (c *ChatCoordinator) DeleteAll(ctx context.Context) []DeleteResult {
	c.mu.Lock()
	snapshot := append([]domain.HistoryEntry(nil), c.entries...)
	c.mu.Unlock()
	if len(snapshot) == 0 {
		return nil
	}

	results := make([]DeleteResult, len(snapshot))
	sem := make(chan struct{}, deleteAllConcurrency)
	var wg sync.WaitGroup

	for i, entry := range snapshot {
		wg.Add(1)
		go func(i int, entry domain.HistoryEntry) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			err := c.history.DeleteSession(ctx, entry.StorageID)
			if err != nil {
				c.log.Error().Err(err).Str("storage_id", entry.StorageID).Msg("bulk delete: entry failed")
			}
			results[i] = DeleteResult{Entry: entry, Err: err}
		}(i, entry)
	}
	wg.Wait()

	c.mu.Lock()
	for _, r := range results {
		if r.Err == nil {
			c.removeEntryLocked(r.Entry.StorageID)
		}
	}
	c.mu.Unlock()
	return results
}

// appendLocked appends one turn with the next sequence-local id.
// Caller holds the mutex.
func (c *ChatCoordinator) appendLocked(text string, sender domain.Sender) {
	next := len(c.session.Messages)
	c.session.Messages = append(c.session.Messages, domain.Message{
		ID:     next,
		Text:   text,
		Sender: sender,
	})
}

// removeEntryLocked drops one history entry by storage id.
// Caller holds the mutex.
func (c *ChatCoordinator) removeEntryLocked(storageID string) {
	kept := c.entries[:0]
	for _, e := range c.entries {
		if e.StorageID != storageID {
			kept = append(kept, e)
		}
	}
	c.entries = kept
}

// replayTurns rebuilds a message log from stored turns: the synthetic
// greeting first, then each turn in stored order, classified as a user
// turn when it carries no originating agent reference.
func replayTurns(turns []domain.StoredTurn) []domain.Message {
	messages := make([]domain.Message, 0, len(turns)+1)
	messages = append(messages, domain.Greeting())
	for _, turn := range turns {
		sender := domain.SenderBot
		if turn.AgentID == nil {
			sender = domain.SenderUser
		}
		messages = append(messages, domain.Message{
			ID:     len(messages),
			Text:   turn.Text,
			Sender: sender,
		})
	}
	return messages
}

// newSessionID mints a collision-free client-side session identifier
func newSessionID() string {
	return uuid.NewString()
}
