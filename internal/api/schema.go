package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"chatapi/internal/models"
	"chatapi/internal/service"
)

// MessageIn is the inbound payload for POST /api/messages. The legacy
// "sender" field is still accepted and folded into sender_id.
type MessageIn struct {
	MessageID  string `json:"message_id"`
	SessionID  string `json:"session_id"`
	Content    string `json:"content"`
	SenderID   string `json:"sender_id"`
	SenderType string `json:"sender_type"`
	Sender     string `json:"sender"`
}

// ValidationError reports a rejected payload naming the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// DecodeMessageIn parses the request body. Mistyped fields are reported by
// name; anything else unparseable is a generic invalid-JSON failure.
func DecodeMessageIn(r io.Reader) (*MessageIn, error) {
	var in MessageIn
	dec := json.NewDecoder(r)
	if err := dec.Decode(&in); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return nil, &ValidationError{Field: typeErr.Field, Message: "has the wrong type"}
		}
		return nil, &ValidationError{Field: "body", Message: "is not valid JSON"}
	}
	// A decoder stops at the first value; anything after it is garbage.
	if err := dec.Decode(new(json.RawMessage)); !errors.Is(err, io.EOF) {
		return nil, &ValidationError{Field: "body", Message: "must contain a single JSON object"}
	}
	return &in, nil
}

// Normalize folds the legacy sender field into the canonical
// sender_id/sender_type pair; nothing past the boundary sees the legacy shape.
func (in *MessageIn) Normalize() {
	if in.Sender != "" && in.SenderID == "" {
		in.SenderID = in.Sender
	}
	in.Sender = ""
	in.SenderType = strings.ToLower(strings.TrimSpace(in.SenderType))
	if in.SenderType == "" {
		in.SenderType = string(models.SenderTypeUser)
	}
}

// Validate checks the normalized payload and produces the canonical service
// input. Content is stored trimmed.
func (in *MessageIn) Validate() (service.NewMessage, error) {
	if strings.TrimSpace(in.SessionID) == "" {
		return service.NewMessage{}, &ValidationError{Field: "session_id", Message: "is required"}
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return service.NewMessage{}, &ValidationError{Field: "content", Message: "must not be empty"}
	}
	if in.SenderID == "" {
		return service.NewMessage{}, &ValidationError{Field: "sender_id", Message: "is required"}
	}
	senderType := models.SenderType(in.SenderType)
	if !senderType.Valid() {
		return service.NewMessage{}, &ValidationError{Field: "sender_type", Message: "must be 'user' or 'system'"}
	}
	return service.NewMessage{
		MessageID:  in.MessageID,
		SessionID:  in.SessionID,
		SenderID:   in.SenderID,
		SenderType: senderType,
		Content:    content,
	}, nil
}

// MessageOut is the outbound representation of a stored message.
type MessageOut struct {
	MessageID      string    `json:"message_id"`
	SessionID      string    `json:"session_id"`
	SenderID       string    `json:"sender_id"`
	SenderType     string    `json:"sender_type"`
	Content        string    `json:"content"`
	WordCount      int       `json:"word_count"`
	CharacterCount int       `json:"character_count"`
	ProcessedAt    time.Time `json:"processed_at"`
}

func NewMessageOut(msg *models.Message) MessageOut {
	return MessageOut{
		MessageID:      msg.MessageID,
		SessionID:      msg.SessionID,
		SenderID:       msg.SenderID,
		SenderType:     string(msg.SenderType),
		Content:        msg.Content,
		WordCount:      msg.WordCount,
		CharacterCount: msg.CharacterCount,
		ProcessedAt:    msg.ProcessedAt,
	}
}

func NewMessageList(msgs []models.Message) []MessageOut {
	out := make([]MessageOut, 0, len(msgs))
	for i := range msgs {
		out = append(out, NewMessageOut(&msgs[i]))
	}
	return out
}

type SuccessResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Status string    `json:"status"`
	Error  ErrorBody `json:"error"`
}
