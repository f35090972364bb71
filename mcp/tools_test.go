package mcp

import (
	"context"
	"testing"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

func TestToolEntryNamespacing(t *testing.T) {
	m := NewManager(nil)
	tool := mcptypes.Tool{
		Name:        "read_file",
		Description: "read a file from disk",
		InputSchema: mcptypes.ToolInputSchema{
			Type:     "object",
			Required: []string{"path"},
		},
	}

	entry := m.toolEntry("filesystem", tool)

	if entry.Type != "filesystem.read_file" {
		t.Errorf("type = %q", entry.Type)
	}
	if entry.Description != "read a file from disk" {
		t.Errorf("description = %q", entry.Description)
	}
	if len(entry.Required) != 1 || entry.Required[0] != "path" {
		t.Errorf("required = %v", entry.Required)
	}
}

func TestToolEntryHandlerWithoutPlugin(t *testing.T) {
	m := NewManager(nil)
	entry := m.toolEntry("gone", mcptypes.Tool{Name: "noop"})

	if _, err := entry.Handler(context.Background(), nil); err == nil {
		t.Fatal("handler should fail when the plugin is not running")
	}
}

func TestResultText(t *testing.T) {
	result := &mcptypes.CallToolResult{
		Content: []mcptypes.Content{
			mcptypes.TextContent{Type: "text", Text: "line one"},
			mcptypes.TextContent{Type: "text", Text: "line two"},
		},
	}

	if got := resultText(result); got != "line one\nline two" {
		t.Errorf("resultText = %q", got)
	}
}
