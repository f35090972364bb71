package handlers

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// openURL hands a URL to the platform's default browser.
var openURL = func(target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func (d Deps) browseURL(ctx context.Context, params map[string]any) (string, error) {
	target := stringParam(params, "url")
	if target == "" {
		return "", fmt.Errorf("url must be a string")
	}
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = "https://" + target
	}

	if err := openURL(target); err != nil {
		return "", fmt.Errorf("open %s: %w", target, err)
	}

	d.logActivity("browse_url", map[string]any{"url": target})
	return fmt.Sprintf("Opened %s", target), nil
}

func (d Deps) searchGoogle(ctx context.Context, params map[string]any) (string, error) {
	query := stringParam(params, "query")
	if query == "" {
		return "", fmt.Errorf("query must be a string")
	}

	target := "https://www.google.com/search?q=" + url.QueryEscape(query)
	if err := openURL(target); err != nil {
		return "", fmt.Errorf("search google: %w", err)
	}

	d.logActivity("search_google", map[string]any{"query": query})
	return fmt.Sprintf("Searching Google for: %s", query), nil
}

func (d Deps) searchWikipedia(ctx context.Context, params map[string]any) (string, error) {
	query := stringParam(params, "query")
	if query == "" {
		return "", fmt.Errorf("query must be a string")
	}

	target := "https://en.wikipedia.org/wiki/Special:Search?search=" + url.QueryEscape(query)
	if err := openURL(target); err != nil {
		return "", fmt.Errorf("search wikipedia: %w", err)
	}

	d.logActivity("search_wikipedia", map[string]any{"query": query})
	return fmt.Sprintf("Opened Wikipedia search for: %s", query), nil
}

func (d Deps) searchYouTube(ctx context.Context, params map[string]any) (string, error) {
	query := stringParam(params, "query")
	if query == "" {
		return "", fmt.Errorf("query must be a string")
	}

	target := "https://www.youtube.com/results?search_query=" + url.QueryEscape(query)
	if err := openURL(target); err != nil {
		return "", fmt.Errorf("search youtube: %w", err)
	}

	d.logActivity("search_youtube", map[string]any{"query": query})
	return fmt.Sprintf("Opened YouTube search for: %s", query), nil
}
