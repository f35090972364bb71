package handlers

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/atotto/clipboard"
)

func (d Deps) copyClipboard(ctx context.Context, params map[string]any) (string, error) {
	text := stringParam(params, "text")
	if text == "" {
		return "", fmt.Errorf("text must be a string")
	}

	if err := clipboard.WriteAll(text); err != nil {
		return "", fmt.Errorf("copy to clipboard: %w", err)
	}

	d.logActivity("copy_clipboard", map[string]any{"chars": len(text)})
	return "Copied to clipboard", nil
}

func (d Deps) systemInfo(ctx context.Context, params map[string]any) (string, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	wd, _ := os.Getwd()

	return fmt.Sprintf(
		"System Info:\nHost: %s\nOS: %s/%s\nCPUs: %d\nGoroutines: %d\nHeap: %.1f MB\nWorking dir: %s",
		hostname, runtime.GOOS, runtime.GOARCH, runtime.NumCPU(),
		runtime.NumGoroutine(), float64(mem.HeapAlloc)/(1<<20), wd,
	), nil
}
