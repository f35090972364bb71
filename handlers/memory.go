package handlers

import (
	"context"
	"fmt"
	"time"
)

// reminderTimeLayouts are tried in order when the oracle supplies a time
// parameter. An unparsable value is kept as nil rather than guessed at.
var reminderTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseReminderTime(value string) *time.Time {
	for _, layout := range reminderTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return &t
		}
	}
	return nil
}

func (d Deps) createTask(ctx context.Context, params map[string]any) (string, error) {
	if d.Store == nil {
		return "", fmt.Errorf("task storage not available")
	}

	text := stringParam(params, "text")
	if text == "" {
		return "", fmt.Errorf("text must be a string")
	}

	var due *time.Time
	if raw := stringParam(params, "due_date"); raw != "" {
		due = parseReminderTime(raw)
	}

	id, err := d.Store.AddTask(text, due)
	if err != nil {
		return "", fmt.Errorf("create task: %w", err)
	}

	d.logActivity("create_task", map[string]any{"id": id, "text": text})
	return fmt.Sprintf("Task added: %s", text), nil
}

func (d Deps) setReminder(ctx context.Context, params map[string]any) (string, error) {
	if d.Store == nil {
		return "", fmt.Errorf("reminder storage not available")
	}

	text := stringParam(params, "text")
	if text == "" {
		return "", fmt.Errorf("text must be a string")
	}

	var at *time.Time
	if raw := stringParam(params, "time"); raw != "" {
		at = parseReminderTime(raw)
	}

	id, err := d.Store.AddReminder(text, at)
	if err != nil {
		return "", fmt.Errorf("set reminder: %w", err)
	}

	d.logActivity("set_reminder", map[string]any{"id": id, "text": text})
	if at != nil {
		return fmt.Sprintf("Reminder set for %s: %s", at.Format("Mon Jan 2 15:04"), text), nil
	}
	return fmt.Sprintf("Reminder set: %s", text), nil
}

func (d Deps) logWater(ctx context.Context, params map[string]any) (string, error) {
	amount := numberParam(params, "amount", 250)

	d.logActivity("log_water", map[string]any{"amount_ml": amount})
	return fmt.Sprintf("Logged %.0fml water intake", amount), nil
}

func (d Deps) logExercise(ctx context.Context, params map[string]any) (string, error) {
	activity := stringParam(params, "activity")
	if activity == "" {
		activity = "Exercise"
	}
	duration := numberParam(params, "duration", 30)

	d.logActivity("log_exercise", map[string]any{
		"activity": activity,
		"duration": duration,
	})
	return fmt.Sprintf("Logged %.0f minutes of %s", duration, activity), nil
}
