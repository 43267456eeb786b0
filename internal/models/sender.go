package models

import "time"

// SenderType categorizes who authored a message.
type SenderType string

const (
	SenderTypeUser   SenderType = "user"
	SenderTypeSystem SenderType = "system"
)

func (t SenderType) Valid() bool {
	return t == SenderTypeUser || t == SenderTypeSystem
}

// Sender is an account that can author messages. Accounts are provisioned
// externally; this service only reads them.
type Sender struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	IsActive     bool       `json:"is_active"`
	Type         SenderType `json:"type"`
	CreatedAt    time.Time  `json:"-"`
	UpdatedAt    time.Time  `json:"-"`
}
