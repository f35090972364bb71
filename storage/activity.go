package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"deskmate/model"
)

// LogActivity appends one audit entry. Details are stored as JSON.
func (s *Store) LogActivity(actionType string, details map[string]any) error {
	var detailsJSON any
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("failed to marshal activity details: %w", err)
		}
		detailsJSON = string(data)
	}

	_, err := s.db.Exec(`
		INSERT INTO activity_logs (action_type, details, timestamp)
		VALUES (?, ?, ?)`,
		actionType, detailsJSON, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}
	return nil
}

// ActivityLog returns the most recent limit entries, newest first.
// Corrupt detail blobs are tolerated and surface as empty maps.
func (s *Store) ActivityLog(limit int) ([]model.ActivityEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, action_type, details, timestamp
		FROM activity_logs
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity log: %w", err)
	}
	defer rows.Close()

	var entries []model.ActivityEntry
	for rows.Next() {
		var (
			e       model.ActivityEntry
			details sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.ActionType, &details, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		e.Details = map[string]any{}
		if details.Valid && details.String != "" {
			if err := json.Unmarshal([]byte(details.String), &e.Details); err != nil {
				s.log.Warn("corrupt activity details", zap.Int64("id", e.ID), zap.Error(err))
				e.Details = map[string]any{}
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
