package ws

import "encoding/json"

// MessageType constants for the question feed protocol.
const (
	// Client -> Server
	TypePing = "ping"

	// Server -> Client
	TypeQuestionEvent = "question_event"
	TypePong          = "pong"
	TypeError         = "error"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewMessage encodes payload and wraps it in a Message of the given type.
func NewMessage(msgType string, payload interface{}) (Message, error) {
	msg := Message{Type: msgType}
	if payload == nil {
		return msg, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	msg.Payload = raw
	return msg, nil
}
