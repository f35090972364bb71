package storage

import (
	"database/sql"
	"fmt"
	"time"

	"deskmate/model"
)

// AddChatTurn appends one turn to the conversation log.
func (s *Store) AddChatTurn(role model.Role, content string, language model.Language) error {
	_, err := s.db.Exec(`
		INSERT INTO chat_history (role, content, language, timestamp)
		VALUES (?, ?, ?, ?)`,
		string(role), content, string(language), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to add chat turn: %w", err)
	}
	return nil
}

// RecentChats returns the most recent limit turns in strictly chronological
// order, oldest of the window first. The underlying query runs newest-first
// and the result is reversed here so callers never re-sort.
func (s *Store) RecentChats(limit int) ([]model.ChatTurn, error) {
	rows, err := s.db.Query(`
		SELECT role, content, language, timestamp
		FROM chat_history
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat history: %w", err)
	}
	defer rows.Close()

	turns, err := scanChatTurns(rows)
	if err != nil {
		return nil, err
	}

	// Reverse newest-first into chronological order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}

	return turns, nil
}

// SearchChats returns turns whose content contains query, newest first.
func (s *Store) SearchChats(query string) ([]model.ChatTurn, error) {
	rows, err := s.db.Query(`
		SELECT role, content, language, timestamp
		FROM chat_history
		WHERE content LIKE ?
		ORDER BY timestamp DESC, id DESC
		LIMIT 50`, "%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search chat history: %w", err)
	}
	defer rows.Close()

	return scanChatTurns(rows)
}

func scanChatTurns(rows *sql.Rows) ([]model.ChatTurn, error) {
	var turns []model.ChatTurn
	for rows.Next() {
		var (
			role, content, language string
			ts                      time.Time
		)
		if err := rows.Scan(&role, &content, &language, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan chat turn: %w", err)
		}
		turns = append(turns, model.ChatTurn{
			Role:      model.Role(role),
			Content:   content,
			Language:  model.Language(language),
			Timestamp: ts,
		})
	}
	return turns, rows.Err()
}
