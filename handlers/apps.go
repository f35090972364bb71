package handlers

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"
)

// appCommands maps friendly application names to launch commands per OS.
// Unknown names fall through to being run verbatim.
var appCommands = map[string]map[string]string{
	"notepad":    {"windows": "notepad.exe", "darwin": "TextEdit", "linux": "gedit"},
	"calculator": {"windows": "calc.exe", "darwin": "Calculator", "linux": "gnome-calculator"},
	"browser":    {"windows": "chrome.exe", "darwin": "Google Chrome", "linux": "xdg-open https://"},
	"chrome":     {"windows": "chrome.exe", "darwin": "Google Chrome", "linux": "google-chrome"},
	"firefox":    {"windows": "firefox.exe", "darwin": "Firefox", "linux": "firefox"},
	"explorer":   {"windows": "explorer.exe", "darwin": "Finder", "linux": "nautilus"},
	"terminal":   {"windows": "cmd.exe", "darwin": "Terminal", "linux": "gnome-terminal"},
	"powershell": {"windows": "powershell.exe"},
	"code":       {"windows": "code", "darwin": "Visual Studio Code", "linux": "code"},
}

// resolveAppCommand matches the requested name against the known table,
// fuzzily, and returns the launch command for this OS. A miss returns the
// name itself so "open blender" still works when blender is on PATH.
func resolveAppCommand(appName, goos string) string {
	lower := strings.ToLower(appName)

	if cmds, ok := appCommands[lower]; ok {
		if cmd, ok := cmds[goos]; ok {
			return cmd
		}
		return appName
	}

	known := make([]string, 0, len(appCommands))
	for name := range appCommands {
		known = append(known, name)
	}
	matches := fuzzy.Find(lower, known)
	if len(matches) > 0 {
		if cmd, ok := appCommands[matches[0].Str][goos]; ok {
			return cmd
		}
	}

	return appName
}

func (d Deps) openApp(ctx context.Context, params map[string]any) (string, error) {
	appName := stringParam(params, "app_name")
	if appName == "" {
		return "", fmt.Errorf("app_name must be a string")
	}

	command := resolveAppCommand(appName, runtime.GOOS)

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", "-a", command)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", command)
	default:
		cmd = exec.Command(command)
	}

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("open %s: %w", appName, err)
	}
	// Detached launch; the app outlives us and we never wait on it.
	go func() { _ = cmd.Wait() }()

	d.logActivity("open_app", map[string]any{"app": appName, "command": command})
	d.Log.Info("opened application", zap.String("app", appName))
	return fmt.Sprintf("Opened %s", appName), nil
}
