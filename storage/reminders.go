package storage

import (
	"database/sql"
	"fmt"
	"time"

	"deskmate/model"
)

// AddReminder inserts a reminder and returns its id. at may be nil: the
// fallback resolver records reminders whose time was never parsed.
func (s *Store) AddReminder(text string, at *time.Time) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO reminders (reminder_text, reminder_time, created_at)
		VALUES (?, ?, ?)`,
		text, nullTime(at), time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to add reminder: %w", err)
	}
	return res.LastInsertId()
}

// Reminders returns reminders ordered by reminder time. Untriggered only,
// unless includeTriggered is set.
func (s *Store) Reminders(includeTriggered bool) ([]model.Reminder, error) {
	query := `
		SELECT id, reminder_text, reminder_time, triggered, created_at
		FROM reminders
		WHERE triggered = 0
		ORDER BY reminder_time ASC, id ASC`
	if includeTriggered {
		query = `
		SELECT id, reminder_text, reminder_time, triggered, created_at
		FROM reminders
		ORDER BY reminder_time ASC, id ASC`
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	return scanReminders(rows)
}

// DueReminders returns untriggered reminders whose time is at or before now.
// Reminders without a time never come due; they only surface in listings.
func (s *Store) DueReminders(now time.Time) ([]model.Reminder, error) {
	rows, err := s.db.Query(`
		SELECT id, reminder_text, reminder_time, triggered, created_at
		FROM reminders
		WHERE triggered = 0 AND reminder_time IS NOT NULL AND reminder_time <= ?
		ORDER BY reminder_time ASC, id ASC`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query due reminders: %w", err)
	}
	defer rows.Close()

	return scanReminders(rows)
}

// MarkReminderTriggered flags a reminder so it never fires again.
func (s *Store) MarkReminderTriggered(id int64) error {
	if _, err := s.db.Exec(`UPDATE reminders SET triggered = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to mark reminder triggered: %w", err)
	}
	return nil
}

func scanReminders(rows *sql.Rows) ([]model.Reminder, error) {
	var reminders []model.Reminder
	for rows.Next() {
		var (
			r         model.Reminder
			at        sql.NullTime
			triggered int
		)
		if err := rows.Scan(&r.ID, &r.Text, &at, &triggered, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		if at.Valid {
			t := at.Time
			r.Time = &t
		}
		r.Triggered = triggered != 0
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}
