// Package handlers provides the builtin capabilities: applications, web,
// files, shell commands, email, clipboard, tasks, reminders, and health
// logging. RegisterBuiltins wires them all into a capability registry.
package handlers

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"deskmate/capability"
)

// Store is the persistence surface mutating handlers write through.
// *storage.Store satisfies it.
type Store interface {
	AddTask(text string, due *time.Time) (int64, error)
	AddReminder(text string, at *time.Time) (int64, error)
	LogActivity(actionType string, details map[string]any) error
}

// EmailConfig carries SMTP settings for send_email.
type EmailConfig struct {
	Host     string
	Port     int
	Address  string
	Password string
}

// Deps holds everything the builtin handlers share.
type Deps struct {
	Store   Store
	Email   EmailConfig
	HomeDir string
	Log     *zap.Logger
}

// RegisterBuiltins registers every builtin capability on reg.
func RegisterBuiltins(reg *capability.Registry, deps Deps) error {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.HomeDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
		deps.HomeDir = home
	}

	entries := []capability.Entry{
		{
			Type:        "open_app",
			Description: "open an application by name",
			Required:    []string{"app_name"},
			Handler:     deps.openApp,
		},
		{
			Type:        "browse_url",
			Description: "open a URL in the default browser",
			Required:    []string{"url"},
			Handler:     deps.browseURL,
		},
		{
			Type:        "search_google",
			Description: "search Google for a query",
			Required:    []string{"query"},
			Handler:     deps.searchGoogle,
		},
		{
			Type:        "search_wikipedia",
			Description: "search Wikipedia for a topic",
			Required:    []string{"query"},
			Handler:     deps.searchWikipedia,
		},
		{
			Type:        "search_youtube",
			Description: "search YouTube for videos",
			Required:    []string{"query"},
			Handler:     deps.searchYouTube,
		},
		{
			Type:        "organize_files",
			Description: "create folders or clean/organize a directory",
			Optional:    map[string]any{"action": "organize", "directory": "downloads"},
			Handler:     deps.organizeFiles,
		},
		{
			Type:        "create_file",
			Description: "create a file, optionally with content",
			Required:    []string{"path"},
			Optional:    map[string]any{"content": ""},
			Handler:     deps.createFile,
		},
		{
			Type:        "run_command",
			Description: "run a shell command (destructive commands are refused)",
			Required:    []string{"command"},
			Handler:     deps.runCommand,
		},
		{
			Type:        "send_email",
			Description: "send an email via SMTP",
			Required:    []string{"to"},
			Optional:    map[string]any{"subject": "Message from deskmate", "body": ""},
			Handler:     deps.sendEmail,
		},
		{
			Type:        "copy_clipboard",
			Description: "copy text to the system clipboard",
			Required:    []string{"text"},
			Handler:     deps.copyClipboard,
		},
		{
			Type:        "get_system_info",
			Description: "report host and runtime information",
			Handler:     deps.systemInfo,
		},
		{
			Type:        "create_task",
			Description: "add a task to the to-do list",
			Required:    []string{"text"},
			Handler:     deps.createTask,
		},
		{
			Type:        "set_reminder",
			Description: "set a reminder, optionally at a specific time",
			Required:    []string{"text"},
			Handler:     deps.setReminder,
		},
		{
			Type:        "log_water",
			Description: "log water intake in milliliters",
			Optional:    map[string]any{"amount": 250.0},
			Handler:     deps.logWater,
		},
		{
			Type:        "log_exercise",
			Description: "log an exercise session",
			Optional:    map[string]any{"activity": "Exercise", "duration": 30.0},
			Handler:     deps.logExercise,
		},
	}

	for _, e := range entries {
		if err := reg.Register(e); err != nil {
			return err
		}
	}
	return nil
}

// logActivity records the audit-trail entry for a mutating handler.
// Failures are logged, never propagated: the action itself succeeded.
func (d Deps) logActivity(actionType string, details map[string]any) {
	if d.Store == nil {
		return
	}
	if err := d.Store.LogActivity(actionType, details); err != nil {
		d.Log.Warn("failed to log activity",
			zap.String("action", actionType), zap.Error(err))
	}
}

// stringParam fetches a string parameter, tolerating missing keys.
func stringParam(params map[string]any, name string) string {
	v, _ := params[name].(string)
	return v
}

// numberParam fetches a numeric parameter. JSON unmarshals numbers as
// float64; ints are accepted for callers constructing params in Go.
func numberParam(params map[string]any, name string, fallback float64) float64 {
	switch v := params[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return fallback
	}
}
