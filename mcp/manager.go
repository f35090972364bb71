// Package mcp runs MCP plugin processes over stdio and exposes their tools
// as registered capabilities, namespaced "plugin.tool".
package mcp

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/client"
	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"deskmate/config"
)

const protocolVersion = "2025-06-18"

type pluginProcess struct {
	name   string
	client *client.Client
	tools  []mcptypes.Tool
}

// Manager owns every running plugin process.
type Manager struct {
	mu      sync.RWMutex
	plugins map[string]*pluginProcess
	log     *zap.Logger
}

// NewManager returns an empty plugin manager.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		plugins: make(map[string]*pluginProcess),
		log:     logger,
	}
}

// Start launches one plugin process, initializes the MCP session, and
// fetches its tool list.
func (m *Manager) Start(ctx context.Context, cfg config.PluginConfig) error {
	if cfg.Name == "" || cfg.Command == "" {
		return fmt.Errorf("plugin needs a name and a command")
	}

	m.mu.Lock()
	if _, running := m.plugins[cfg.Name]; running {
		m.mu.Unlock()
		return fmt.Errorf("plugin %s already running", cfg.Name)
	}
	m.mu.Unlock()

	env := os.Environ()
	for k, v := range cfg.Env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}

	mcpClient, err := client.NewStdioMCPClient(cfg.Command, env, cfg.Args...)
	if err != nil {
		return fmt.Errorf("failed to start plugin %s: %w", cfg.Name, err)
	}

	initReq := mcptypes.InitializeRequest{
		Params: mcptypes.InitializeParams{
			ProtocolVersion: protocolVersion,
			Capabilities:    mcptypes.ClientCapabilities{},
			ClientInfo: mcptypes.Implementation{
				Name:    "deskmate",
				Version: "1.0.0",
			},
		},
	}
	if _, err := mcpClient.Initialize(ctx, initReq); err != nil {
		_ = mcpClient.Close()
		return fmt.Errorf("failed to initialize plugin %s: %w", cfg.Name, err)
	}

	toolsResult, err := mcpClient.ListTools(ctx, mcptypes.ListToolsRequest{})
	if err != nil {
		_ = mcpClient.Close()
		return fmt.Errorf("failed to list tools for %s: %w", cfg.Name, err)
	}

	m.mu.Lock()
	m.plugins[cfg.Name] = &pluginProcess{
		name:   cfg.Name,
		client: mcpClient,
		tools:  toolsResult.Tools,
	}
	m.mu.Unlock()

	m.log.Info("plugin started",
		zap.String("plugin", cfg.Name),
		zap.Int("tools", len(toolsResult.Tools)))
	return nil
}

// StartAll launches the configured plugins. A plugin that fails to start is
// logged and skipped; the assistant runs fine without it.
func (m *Manager) StartAll(ctx context.Context, plugins []config.PluginConfig) {
	for _, cfg := range plugins {
		if err := m.Start(ctx, cfg); err != nil {
			m.log.Warn("plugin failed to start",
				zap.String("plugin", cfg.Name), zap.Error(err))
		}
	}
}

// Stop shuts down one plugin.
func (m *Manager) Stop(ctx context.Context, name string) error {
	m.mu.Lock()
	proc, exists := m.plugins[name]
	delete(m.plugins, name)
	m.mu.Unlock()

	if !exists {
		return fmt.Errorf("plugin %s not running", name)
	}

	closeDone := make(chan error, 1)
	go func() { closeDone <- proc.client.Close() }()

	select {
	case err := <-closeDone:
		return err
	case <-time.After(time.Second):
		return fmt.Errorf("plugin %s did not close in time", name)
	}
}

// Shutdown stops every plugin in parallel.
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.Lock()
	names := make([]string, 0, len(m.plugins))
	for name := range m.plugins {
		names = append(names, name)
	}
	m.mu.Unlock()

	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			if err := m.Stop(ctx, name); err != nil {
				m.log.Warn("plugin shutdown error",
					zap.String("plugin", name), zap.Error(err))
			}
		}(name)
	}
	wg.Wait()
}

// callTool invokes one tool on a running plugin.
func (m *Manager) callTool(ctx context.Context, plugin, tool string, args map[string]any) (*mcptypes.CallToolResult, error) {
	m.mu.RLock()
	proc, exists := m.plugins[plugin]
	m.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("plugin %s not running", plugin)
	}

	return proc.client.CallTool(ctx, mcptypes.CallToolRequest{
		Params: mcptypes.CallToolParams{
			Name:      tool,
			Arguments: args,
		},
	})
}
