package mcp

import (
	"context"
	"fmt"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"deskmate/capability"
)

// RegisterTools registers every running plugin's tools as capabilities.
// Tool names are namespaced "plugin.tool" so plugins can't shadow builtins
// or each other.
func (m *Manager) RegisterTools(reg *capability.Registry) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for name, proc := range m.plugins {
		for _, tool := range proc.tools {
			entry := m.toolEntry(name, tool)
			if err := reg.Register(entry); err != nil {
				return fmt.Errorf("register plugin tool %s: %w", entry.Type, err)
			}
		}
	}
	return nil
}

func (m *Manager) toolEntry(plugin string, tool mcptypes.Tool) capability.Entry {
	actionType := plugin + "." + tool.Name

	return capability.Entry{
		Type:        actionType,
		Description: tool.Description,
		Required:    tool.InputSchema.Required,
		Handler: func(ctx context.Context, params map[string]any) (string, error) {
			result, err := m.callTool(ctx, plugin, tool.Name, params)
			if err != nil {
				return "", fmt.Errorf("plugin tool %s: %w", actionType, err)
			}

			text := resultText(result)
			if result.IsError {
				return "", fmt.Errorf("plugin tool %s failed: %s", actionType, text)
			}
			m.log.Debug("plugin tool executed", zap.String("tool", actionType))
			return text, nil
		},
	}
}

// resultText flattens a tool result's content blocks into one string.
func resultText(result *mcptypes.CallToolResult) string {
	var parts []string
	for _, content := range result.Content {
		if tc, ok := content.(mcptypes.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}
