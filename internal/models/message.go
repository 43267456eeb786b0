package models

import "time"

// Message is a single chat message persisted within a session. WordCount,
// CharacterCount and ProcessedAt are derived at processing time and never
// taken from the client.
type Message struct {
	MessageID      string     `json:"message_id"`
	SessionID      string     `json:"session_id"`
	SenderID       string     `json:"sender_id"`
	SenderType     SenderType `json:"sender_type"`
	Content        string     `json:"content"`
	WordCount      int        `json:"word_count"`
	CharacterCount int        `json:"character_count"`
	ProcessedAt    time.Time  `json:"processed_at"`
	// Seq is the store-assigned insertion-order key.
	Seq int64 `json:"-"`
}

// BannedWord is a prohibited term; messages containing one are rejected.
type BannedWord struct {
	ID   int    `json:"id"`
	Word string `json:"word"`
}
