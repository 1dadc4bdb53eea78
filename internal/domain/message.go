package domain

import "context"

// Sender identifies which side of the conversation produced a message
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// GreetingText is the synthetic first bot message of every session view.
// It is reconstructed locally and never persisted server-side.
const GreetingText = "Olá! Como posso ajudar?"

// SendFallbackText is appended as a bot turn when a send fails for any
// reason; chat failures degrade in-band, never to a blocking dialog.
const SendFallbackText = "Desculpe, ocorreu um erro ao processar sua mensagem."

// Message is one turn in the active session. IDs are sequence-local:
// unique within a session, insertion order equals display order.
type Message struct {
	ID     int    `json:"id"`
	Text   string `json:"text"`
	Sender Sender `json:"sender"`
}

// Greeting returns the synthetic greeting message (always id 0).
func Greeting() Message {
	return Message{ID: 0, Text: GreetingText, Sender: SenderBot}
}

// SendRequest is the payload of one user turn sent to the messaging
// endpoint. Wire names follow the platform API.
type SendRequest struct {
	Question string `json:"question"`
	ChatID   string `json:"chat_id"`
	UserID   int    `json:"usuario_id"`
	AgentID  int    `json:"agente_id"`
}

// Messenger exchanges one user turn for one bot response
type Messenger interface {
	SendMessage(ctx context.Context, req SendRequest) (string, error)
}
