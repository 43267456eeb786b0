package repository

import (
	"database/sql"
	"fmt"

	"chatapi/internal/models"
	"chatapi/internal/service"

	_ "github.com/lib/pq"
)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(connStr string) (*PostgresRepo, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	createTablesQuery := `
	CREATE TABLE IF NOT EXISTS senders (
		id VARCHAR(60) PRIMARY KEY,
		email VARCHAR(128) UNIQUE,
		password_hash VARCHAR(256),
		first_name VARCHAR(128),
		last_name VARCHAR(128),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		type VARCHAR(16) NOT NULL DEFAULT 'user',
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);
	CREATE TABLE IF NOT EXISTS sessions (
		id VARCHAR(60) PRIMARY KEY,
		session_id VARCHAR(36) UNIQUE NOT NULL,
		user_id VARCHAR(60) NOT NULL REFERENCES senders(id),
		title VARCHAR(256),
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);
	CREATE TABLE IF NOT EXISTS messages (
		seq BIGSERIAL UNIQUE,
		message_id VARCHAR(36) PRIMARY KEY,
		session_id VARCHAR(36) NOT NULL REFERENCES sessions(session_id) ON DELETE CASCADE,
		sender_id VARCHAR(60) NOT NULL REFERENCES senders(id),
		sender_type VARCHAR(16) NOT NULL,
		content TEXT NOT NULL,
		word_count INTEGER NOT NULL,
		character_count INTEGER NOT NULL,
		processed_at TIMESTAMPTZ NOT NULL
	);
	CREATE TABLE IF NOT EXISTS banned_words (
		id SERIAL PRIMARY KEY,
		word VARCHAR(128) UNIQUE NOT NULL
	);
	`
	if _, err = db.Exec(createTablesQuery); err != nil {
		return nil, fmt.Errorf("failed to ensure tables exist: %w", err)
	}
	return &PostgresRepo{db: db}, nil
}

var _ service.MessageRepository = (*PostgresRepo)(nil)

func (r *PostgresRepo) GetSenderByID(id string) (*models.Sender, error) {
	query := `SELECT id, COALESCE(email, ''), COALESCE(first_name, ''), COALESCE(last_name, ''), is_active, type, created_at, updated_at
	          FROM senders
	          WHERE id = $1;`
	var sender models.Sender
	var senderType string
	err := r.db.QueryRow(query, id).Scan(
		&sender.ID, &sender.Email, &sender.FirstName, &sender.LastName,
		&sender.IsActive, &senderType, &sender.CreatedAt, &sender.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sender.Type = models.SenderType(senderType)
	return &sender, nil
}

func (r *PostgresRepo) GetSessionByID(sessionID string) (*models.Session, error) {
	query := `SELECT id, session_id, user_id, COALESCE(title, ''), created_at, updated_at
	          FROM sessions
	          WHERE session_id = $1;`
	var session models.Session
	err := r.db.QueryRow(query, sessionID).Scan(
		&session.ID, &session.SessionID, &session.UserID, &session.Title,
		&session.CreatedAt, &session.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *PostgresRepo) InsertMessage(msg *models.Message) error {
	query := `INSERT INTO messages (message_id, session_id, sender_id, sender_type, content, word_count, character_count, processed_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING seq;`
	return r.db.QueryRow(query,
		msg.MessageID, msg.SessionID, msg.SenderID, string(msg.SenderType),
		msg.Content, msg.WordCount, msg.CharacterCount, msg.ProcessedAt,
	).Scan(&msg.Seq)
}

func (r *PostgresRepo) ListBySession(sessionID string, senderType models.SenderType, limit, offset int) ([]models.Message, error) {
	query := `SELECT seq, message_id, session_id, sender_id, sender_type, content, word_count, character_count, processed_at
	          FROM messages
	          WHERE session_id = $1`
	args := []interface{}{sessionID}
	if senderType != "" {
		query += ` AND sender_type = $2`
		args = append(args, string(senderType))
	}
	query += fmt.Sprintf(` ORDER BY seq ASC LIMIT $%d OFFSET $%d;`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.Message
	for rows.Next() {
		var msg models.Message
		var typ string
		if err := rows.Scan(&msg.Seq, &msg.MessageID, &msg.SessionID, &msg.SenderID, &typ,
			&msg.Content, &msg.WordCount, &msg.CharacterCount, &msg.ProcessedAt); err != nil {
			return nil, err
		}
		msg.SenderType = models.SenderType(typ)
		results = append(results, msg)
	}
	return results, rows.Err()
}

func (r *PostgresRepo) ListBannedWords() ([]string, error) {
	rows, err := r.db.Query(`SELECT word FROM banned_words ORDER BY word ASC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, rows.Err()
}
