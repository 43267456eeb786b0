package models

import "time"

// Session is a conversation container. SessionID is the public identifier
// used in API paths; ID is the internal row key.
type Session struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
