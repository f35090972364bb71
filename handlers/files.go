package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// resolveLocation maps a friendly location name to a directory under the
// user's home. Anything else is taken as a literal path.
func (d Deps) resolveLocation(location string) string {
	switch strings.ToLower(location) {
	case "desktop":
		return filepath.Join(d.HomeDir, "Desktop")
	case "documents":
		return filepath.Join(d.HomeDir, "Documents")
	case "downloads":
		return filepath.Join(d.HomeDir, "Downloads")
	case "home", "":
		return d.HomeDir
	default:
		return location
	}
}

func (d Deps) organizeFiles(ctx context.Context, params map[string]any) (string, error) {
	action := stringParam(params, "action")
	if action == "" {
		action = "organize"
	}

	if action == "create_folder" {
		return d.createFolder(params)
	}

	directory := stringParam(params, "directory")
	if directory == "" {
		directory = "downloads"
	}
	target := d.resolveLocation(directory)

	if _, err := os.Stat(target); err != nil {
		return "", fmt.Errorf("directory not found: %s", target)
	}

	switch action {
	case "clean":
		return d.cleanDirectory(target)
	case "organize":
		return d.organizeByExtension(target)
	default:
		return "", fmt.Errorf("unknown organization action: %s", action)
	}
}

func (d Deps) createFolder(params map[string]any) (string, error) {
	folderName := stringParam(params, "folder_name")
	if folderName == "" {
		folderName = "NewFolder"
	}
	location := stringParam(params, "location")
	if location == "" {
		location = "desktop"
	}

	folderPath := filepath.Join(d.resolveLocation(location), folderName)
	if err := os.MkdirAll(folderPath, 0o755); err != nil {
		return "", fmt.Errorf("create folder: %w", err)
	}

	d.logActivity("create_folder", map[string]any{
		"folder":   folderPath,
		"name":     folderName,
		"location": location,
	})
	return fmt.Sprintf("Created folder %q at %s (%s)", folderName, location, folderPath), nil
}

// cleanDirectory reports what a cleanup would touch. Deletion stays manual;
// a misresolved utterance must never vaporize someone's downloads.
func (d Deps) cleanDirectory(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read directory: %w", err)
	}

	var count int
	var totalSize int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		count++
		totalSize += info.Size()
	}

	d.logActivity("clean_files", map[string]any{
		"directory":   dir,
		"files_count": count,
	})
	return fmt.Sprintf("Found %d files (%.1f MB) in %s", count, float64(totalSize)/(1<<20), dir), nil
}

// organizeByExtension moves loose files into per-extension subfolders.
func (d Deps) organizeByExtension(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read directory: %w", err)
	}

	var organized int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		folderName := "other"
		if ext != "" {
			folderName = strings.TrimPrefix(ext, ".")
		}

		targetFolder := filepath.Join(dir, folderName)
		if err := os.MkdirAll(targetFolder, 0o755); err != nil {
			continue
		}

		targetPath := filepath.Join(targetFolder, entry.Name())
		if _, err := os.Stat(targetPath); err == nil {
			continue // never clobber an existing file
		}
		if err := os.Rename(filepath.Join(dir, entry.Name()), targetPath); err != nil {
			continue
		}
		organized++
	}

	d.logActivity("organize_files", map[string]any{
		"directory": dir,
		"organized": organized,
	})
	return fmt.Sprintf("Organized %d files in %s", organized, dir), nil
}

func (d Deps) createFile(ctx context.Context, params map[string]any) (string, error) {
	path := stringParam(params, "path")
	if path == "" {
		return "", fmt.Errorf("path must be a string")
	}
	content := stringParam(params, "content")

	if strings.HasPrefix(path, "~") {
		path = filepath.Join(d.HomeDir, strings.TrimPrefix(path, "~"))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create parent directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	d.logActivity("file_created", map[string]any{"file_path": path})
	return fmt.Sprintf("Created file: %s", path), nil
}
