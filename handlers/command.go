package handlers

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// commandTimeout bounds every run_command invocation.
const commandTimeout = 30 * time.Second

// destructiveCommands are refused outright. The assistant asks the user to
// run these by hand instead.
var destructiveCommands = []string{
	"format", "del /f", "rmdir /s", "rm -rf", "sudo", "mkfs",
	"dd if=", ":(){",
}

func isDestructive(command string) bool {
	lower := strings.ToLower(command)
	for _, pattern := range destructiveCommands {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

func (d Deps) runCommand(ctx context.Context, params map[string]any) (string, error) {
	command := stringParam(params, "command")
	if command == "" {
		return "", fmt.Errorf("command must be a string")
	}

	if isDestructive(command) {
		return "", fmt.Errorf("refusing potentially destructive command: %s", command)
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/c", command)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", command)
	}
	if dir := stringParam(params, "working_dir"); dir != "" {
		cmd.Dir = dir
	}

	output, err := cmd.CombinedOutput()

	d.logActivity("command_executed", map[string]any{
		"command": command,
		"success": err == nil,
	})

	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("command timed out after %s", commandTimeout)
	}
	if err != nil {
		return "", fmt.Errorf("command failed: %w\n%s", err, output)
	}
	return fmt.Sprintf("Command executed successfully:\n%s", output), nil
}
