package handlers

import (
	"context"
	"net/smtp"
	"os"
	"path/filepath"
	"testing"
	"time"

	"deskmate/capability"
)

type recordingStore struct {
	tasks     []string
	reminders []string
	times     []*time.Time
	activity  []string
}

func (r *recordingStore) AddTask(text string, due *time.Time) (int64, error) {
	r.tasks = append(r.tasks, text)
	return int64(len(r.tasks)), nil
}

func (r *recordingStore) AddReminder(text string, at *time.Time) (int64, error) {
	r.reminders = append(r.reminders, text)
	r.times = append(r.times, at)
	return int64(len(r.reminders)), nil
}

func (r *recordingStore) LogActivity(actionType string, details map[string]any) error {
	r.activity = append(r.activity, actionType)
	return nil
}

func testDeps(t *testing.T) (Deps, *recordingStore) {
	t.Helper()
	store := &recordingStore{}
	return Deps{Store: store, HomeDir: t.TempDir()}, store
}

func TestRegisterBuiltins(t *testing.T) {
	reg := capability.NewRegistry()
	deps, _ := testDeps(t)

	if err := RegisterBuiltins(reg, deps); err != nil {
		t.Fatalf("RegisterBuiltins: %v", err)
	}

	for _, typ := range []string{
		"open_app", "browse_url", "search_google", "search_wikipedia",
		"search_youtube", "organize_files", "create_file", "run_command",
		"send_email", "copy_clipboard", "get_system_info", "create_task",
		"set_reminder", "log_water", "log_exercise",
	} {
		if _, err := reg.Resolve(typ); err != nil {
			t.Errorf("capability %q not registered: %v", typ, err)
		}
	}
}

func TestResolveAppCommand(t *testing.T) {
	tests := []struct {
		name string
		goos string
		want string
	}{
		{"notepad", "windows", "notepad.exe"},
		{"Notepad", "windows", "notepad.exe"},
		{"calculator", "linux", "gnome-calculator"},
		{"notpad", "windows", "notepad.exe"}, // fuzzy match
		{"blender", "linux", "blender"},      // unknown, run verbatim
	}

	for _, tt := range tests {
		if got := resolveAppCommand(tt.name, tt.goos); got != tt.want {
			t.Errorf("resolveAppCommand(%q, %s) = %q, want %q", tt.name, tt.goos, got, tt.want)
		}
	}
}

func TestBrowseURLAddsScheme(t *testing.T) {
	var opened string
	orig := openURL
	openURL = func(target string) error {
		opened = target
		return nil
	}
	defer func() { openURL = orig }()

	deps, store := testDeps(t)
	result, err := deps.browseURL(context.Background(), map[string]any{"url": "example.com"})
	if err != nil {
		t.Fatalf("browseURL: %v", err)
	}

	if opened != "https://example.com" {
		t.Errorf("opened = %q", opened)
	}
	if result == "" {
		t.Error("expected a result message")
	}
	if len(store.activity) != 1 || store.activity[0] != "browse_url" {
		t.Errorf("activity = %v", store.activity)
	}
}

func TestSearchGoogleEscapesQuery(t *testing.T) {
	var opened string
	orig := openURL
	openURL = func(target string) error {
		opened = target
		return nil
	}
	defer func() { openURL = orig }()

	deps, _ := testDeps(t)
	if _, err := deps.searchGoogle(context.Background(), map[string]any{"query": "golang generics"}); err != nil {
		t.Fatalf("searchGoogle: %v", err)
	}

	if want := "https://www.google.com/search?q=golang+generics"; opened != want {
		t.Errorf("opened = %q, want %q", opened, want)
	}
}

func TestCreateFolder(t *testing.T) {
	deps, store := testDeps(t)

	result, err := deps.organizeFiles(context.Background(), map[string]any{
		"action":      "create_folder",
		"folder_name": "Projects",
		"location":    "documents",
	})
	if err != nil {
		t.Fatalf("organizeFiles: %v", err)
	}

	path := filepath.Join(deps.HomeDir, "Documents", "Projects")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("folder not created: %v", err)
	}
	if result == "" {
		t.Error("expected a result message")
	}
	if len(store.activity) != 1 || store.activity[0] != "create_folder" {
		t.Errorf("activity = %v", store.activity)
	}
}

func TestOrganizeByExtension(t *testing.T) {
	deps, _ := testDeps(t)
	downloads := filepath.Join(deps.HomeDir, "Downloads")
	if err := os.MkdirAll(downloads, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.pdf", "b.pdf", "c.txt", "noext"} {
		if err := os.WriteFile(filepath.Join(downloads, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := deps.organizeFiles(context.Background(), map[string]any{"action": "organize"}); err != nil {
		t.Fatalf("organizeFiles: %v", err)
	}

	for _, moved := range []string{"pdf/a.pdf", "pdf/b.pdf", "txt/c.txt", "other/noext"} {
		if _, err := os.Stat(filepath.Join(downloads, moved)); err != nil {
			t.Errorf("file not organized: %s", moved)
		}
	}
}

func TestOrganizeFilesMissingDirectory(t *testing.T) {
	deps, _ := testDeps(t)

	_, err := deps.organizeFiles(context.Background(), map[string]any{
		"action":    "clean",
		"directory": filepath.Join(deps.HomeDir, "nope"),
	})
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestCreateFile(t *testing.T) {
	deps, _ := testDeps(t)
	path := filepath.Join(deps.HomeDir, "notes", "todo.txt")

	if _, err := deps.createFile(context.Background(), map[string]any{
		"path":    path,
		"content": "buy milk",
	}); err != nil {
		t.Fatalf("createFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "buy milk" {
		t.Errorf("content = %q", data)
	}
}

func TestRunCommandRefusesDestructive(t *testing.T) {
	deps, store := testDeps(t)

	for _, command := range []string{
		"rm -rf /",
		"sudo shutdown now",
		"format c:",
		"dd if=/dev/zero of=/dev/sda",
	} {
		if _, err := deps.runCommand(context.Background(), map[string]any{"command": command}); err == nil {
			t.Errorf("command %q should be refused", command)
		}
	}
	if len(store.activity) != 0 {
		t.Errorf("refused commands must not be logged as executed, got %v", store.activity)
	}
}

func TestRunCommandEcho(t *testing.T) {
	deps, store := testDeps(t)

	result, err := deps.runCommand(context.Background(), map[string]any{"command": "echo hello"})
	if err != nil {
		t.Fatalf("runCommand: %v", err)
	}
	if result == "" {
		t.Error("expected command output in result")
	}
	if len(store.activity) != 1 || store.activity[0] != "command_executed" {
		t.Errorf("activity = %v", store.activity)
	}
}

func TestSendEmailRequiresCredentials(t *testing.T) {
	deps, _ := testDeps(t)

	_, err := deps.sendEmail(context.Background(), map[string]any{"to": "ali@example.com"})
	if err == nil {
		t.Fatal("expected error without credentials")
	}
}

func TestSendEmail(t *testing.T) {
	var sentTo []string
	orig := sendMail
	sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		sentTo = to
		return nil
	}
	defer func() { sendMail = orig }()

	deps, store := testDeps(t)
	deps.Email = EmailConfig{Host: "smtp.example.com", Port: 587, Address: "me@example.com", Password: "secret"}

	result, err := deps.sendEmail(context.Background(), map[string]any{
		"to":      "ali@example.com",
		"subject": "lunch",
		"body":    "12:30?",
	})
	if err != nil {
		t.Fatalf("sendEmail: %v", err)
	}
	if len(sentTo) != 1 || sentTo[0] != "ali@example.com" {
		t.Errorf("sentTo = %v", sentTo)
	}
	if result != "Email sent to ali@example.com" {
		t.Errorf("result = %q", result)
	}
	if len(store.activity) != 1 || store.activity[0] != "send_email" {
		t.Errorf("activity = %v", store.activity)
	}
}

func TestCreateTask(t *testing.T) {
	deps, store := testDeps(t)

	if _, err := deps.createTask(context.Background(), map[string]any{"text": "finish report"}); err != nil {
		t.Fatalf("createTask: %v", err)
	}
	if len(store.tasks) != 1 || store.tasks[0] != "finish report" {
		t.Errorf("tasks = %v", store.tasks)
	}
}

func TestSetReminderTimeParsing(t *testing.T) {
	tests := []struct {
		raw      string
		wantTime bool
	}{
		{"2026-09-01 18:00", true},
		{"2026-09-01T18:00:00+05:00", true},
		{"2026-09-01", true},
		{"tomorrow evening", false},
		{"", false},
	}

	for _, tt := range tests {
		deps, store := testDeps(t)
		params := map[string]any{"text": "call Ali"}
		if tt.raw != "" {
			params["time"] = tt.raw
		}

		if _, err := deps.setReminder(context.Background(), params); err != nil {
			t.Fatalf("setReminder(%q): %v", tt.raw, err)
		}
		if got := store.times[0] != nil; got != tt.wantTime {
			t.Errorf("time %q: parsed = %v, want %v", tt.raw, got, tt.wantTime)
		}
	}
}

func TestLogWaterDefaults(t *testing.T) {
	deps, store := testDeps(t)

	result, err := deps.logWater(context.Background(), map[string]any{"amount": 250.0})
	if err != nil {
		t.Fatalf("logWater: %v", err)
	}
	if result != "Logged 250ml water intake" {
		t.Errorf("result = %q", result)
	}
	if len(store.activity) != 1 || store.activity[0] != "log_water" {
		t.Errorf("activity = %v", store.activity)
	}
}
