package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"chatapi/internal/models"
)

var (
	ErrSenderNotFound  = errors.New("sender not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrBannedContent   = errors.New("content contains banned words")
)

type MessageRepository interface {
	GetSenderByID(id string) (*models.Sender, error)
	GetSessionByID(sessionID string) (*models.Session, error)
	InsertMessage(msg *models.Message) error
	ListBySession(sessionID string, senderType models.SenderType, limit, offset int) ([]models.Message, error)
	ListBannedWords() ([]string, error)
}

type PageCache interface {
	GetPage(sessionID string, senderType models.SenderType, limit, offset int) ([]models.Message, bool)
	StorePage(sessionID string, senderType models.SenderType, limit, offset int, msgs []models.Message) error
	InvalidateSession(sessionID string) error
}

// NewMessage is the canonical, already-validated input for message creation.
// Legacy request shapes are normalized away before this point.
type NewMessage struct {
	MessageID  string
	SessionID  string
	SenderID   string
	SenderType models.SenderType
	Content    string
}

type MessageService struct {
	repo  MessageRepository
	cache PageCache
	words *Wordlist
	log   zerolog.Logger
}

func NewMessageService(repo MessageRepository, cache PageCache, words *Wordlist, log zerolog.Logger) *MessageService {
	return &MessageService{repo: repo, cache: cache, words: words, log: log}
}

// CreateMessage runs the ingestion pipeline: resolve sender and session,
// moderate, enrich, persist. Nothing is persisted on any failure.
func (s *MessageService) CreateMessage(in NewMessage) (*models.Message, error) {
	sender, err := s.repo.GetSenderByID(in.SenderID)
	if err != nil {
		return nil, fmt.Errorf("resolving sender: %w", err)
	}
	if sender == nil || !sender.IsActive {
		return nil, ErrSenderNotFound
	}

	session, err := s.repo.GetSessionByID(in.SessionID)
	if err != nil {
		return nil, fmt.Errorf("resolving session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if ContainsBannedWord(in.Content, s.words.Snapshot()) {
		return nil, ErrBannedContent
	}

	wordCount, charCount, processedAt := Enrich(in.Content)
	msg := &models.Message{
		MessageID:      in.MessageID,
		SessionID:      session.SessionID,
		SenderID:       in.SenderID,
		SenderType:     in.SenderType,
		Content:        in.Content,
		WordCount:      wordCount,
		CharacterCount: charCount,
		ProcessedAt:    processedAt,
	}
	if msg.MessageID == "" {
		msg.MessageID = uuid.NewString()
	}

	if err := s.repo.InsertMessage(msg); err != nil {
		return nil, fmt.Errorf("persisting message: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.InvalidateSession(msg.SessionID); err != nil {
			s.log.Warn().Err(err).Str("session_id", msg.SessionID).Msg("cache invalidation failed")
		}
	}
	s.log.Debug().Str("message_id", msg.MessageID).Str("session_id", msg.SessionID).Msg("message created")
	return msg, nil
}

// ListMessages returns one page of a session's messages in insertion order.
// An empty page for a known session is a valid result.
func (s *MessageService) ListMessages(sessionID string, senderType models.SenderType, limit, offset int) ([]models.Message, error) {
	session, err := s.repo.GetSessionByID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("resolving session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if s.cache != nil {
		if page, ok := s.cache.GetPage(sessionID, senderType, limit, offset); ok {
			return page, nil
		}
	}

	msgs, err := s.repo.ListBySession(sessionID, senderType, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	if s.cache != nil {
		if err := s.cache.StorePage(sessionID, senderType, limit, offset, msgs); err != nil {
			s.log.Warn().Err(err).Str("session_id", sessionID).Msg("cache store failed")
		}
	}
	return msgs, nil
}

// ReloadBannedWords swaps in the persisted wordlist. An empty table keeps the
// current list so a configured fallback survives an unseeded store.
func (s *MessageService) ReloadBannedWords() error {
	words, err := s.repo.ListBannedWords()
	if err != nil {
		return fmt.Errorf("loading banned words: %w", err)
	}
	if len(words) > 0 {
		s.words.Replace(words)
	}
	return nil
}
