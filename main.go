package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	markdown "github.com/MichaelMure/go-term-markdown"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"deskmate/capability"
	"deskmate/config"
	"deskmate/dispatch"
	"deskmate/handlers"
	"deskmate/mcp"
	"deskmate/model"
	"deskmate/oracle"
	"deskmate/resolver"
	"deskmate/scheduler"
	"deskmate/session"
	"deskmate/storage"
)

const (
	Version = "v0.1.0"
	License = "Apache-2.0"
)

const replWidth = 100

var (
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	reminderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	creds, err := loadCredentials(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load credentials: %v\n", err)
		os.Exit(1)
	}

	// Credential subcommand short-circuits the REPL:
	//   deskmate credential set groq
	if len(os.Args) > 1 && os.Args[1] == "credential" {
		if err := runCredentialCommand(cfg, creds, os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	logger, err := newLogger(cfg.DataDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	store, err := storage.Open(cfg.DataDir(), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open storage: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := capability.NewRegistry()
	err = handlers.RegisterBuiltins(registry, handlers.Deps{
		Store: store,
		Email: handlers.EmailConfig{
			Host:     cfg.Email.SMTPHost,
			Port:     cfg.Email.SMTPPort,
			Address:  cfg.Email.Address,
			Password: creds.Get("email"),
		},
		Log: logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to register capabilities: %v\n", err)
		os.Exit(1)
	}

	if cfg.PluginsEnabled {
		plugins := mcp.NewManager(logger)
		plugins.StartAll(ctx, cfg.Plugins)
		if err := plugins.RegisterTools(registry); err != nil {
			logger.Warn("failed to register plugin tools", zap.Error(err))
		}
		defer plugins.Shutdown(context.Background())
	}

	// A missing or misconfigured oracle is not fatal: the resolver falls
	// back to keyword extraction and the assistant stays usable.
	var llm model.Oracle
	llm, err = oracle.New(oracle.Config{
		Backend: oracle.Backend(cfg.Oracle.Backend),
		BaseURL: cfg.Oracle.BaseURL,
		Model:   cfg.Oracle.Model,
		APIKey:  creds.Get(cfg.Oracle.Backend),
	})
	if err != nil {
		logger.Warn("oracle unavailable, running degraded", zap.Error(err))
		fmt.Println(dimStyle.Render("Note: language model unavailable (" + err.Error() + "); running in degraded mode."))
		llm = nil
	}

	assistant := session.New(
		store,
		resolver.New(llm, registry, logger),
		dispatch.New(registry, logger),
		logger,
	)

	reminders := scheduler.New(store, cfg.PollInterval(), func(r model.Reminder) {
		fmt.Println()
		fmt.Println(reminderStyle.Render("⏰ Reminder: " + r.Text))
		printPrompt()
	}, logger)
	go reminders.Run(ctx)

	language := model.LangEnglish
	if cfg.DefaultLanguage == "ur" {
		language = model.LangUrdu
	}

	runREPL(ctx, assistant, language)
}

func newLogger(dataDir string) (*zap.Logger, error) {
	logCfg := zap.NewProductionConfig()
	logCfg.OutputPaths = []string{filepath.Join(dataDir, "deskmate.log")}
	logCfg.ErrorOutputPaths = logCfg.OutputPaths
	if os.Getenv("DESKMATE_DEBUG") != "" {
		logCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return logCfg.Build()
}

func loadCredentials(cfg *config.Config) (*config.CredentialStore, error) {
	method := config.SecurityMethod(cfg.Security.Method)
	if method == "" {
		method = config.SecurityPlainText
	}

	creds := config.NewCredentialStore(method, config.ExpandPath(cfg.Security.SSHKeyPath))
	if method == config.SecuritySSHKey {
		if encrypted, err := config.IsSSHKeyEncrypted(config.ExpandPath(cfg.Security.SSHKeyPath)); err == nil && encrypted {
			fmt.Print("SSH key passphrase: ")
			reader := bufio.NewReader(os.Stdin)
			passphrase, _ := reader.ReadString('\n')
			creds.SetPassphrase(strings.TrimSpace(passphrase))
		}
	}

	if err := creds.Load(cfg.DataDir()); err != nil {
		return nil, err
	}
	return creds, nil
}

func runCredentialCommand(cfg *config.Config, creds *config.CredentialStore, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: deskmate credential <set|delete> <name>")
	}

	name := args[1]
	switch args[0] {
	case "set":
		fmt.Printf("Value for %q: ", name)
		reader := bufio.NewReader(os.Stdin)
		value, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read value: %w", err)
		}
		creds.Set(name, strings.TrimSpace(value))
	case "delete":
		creds.Delete(name)
	default:
		return fmt.Errorf("unknown credential command: %s", args[0])
	}

	if err := creds.Save(cfg.DataDir()); err != nil {
		return err
	}
	fmt.Println("Saved.")
	return nil
}

func printPrompt() {
	fmt.Print(promptStyle.Render("you> "))
}

func runREPL(ctx context.Context, assistant *session.Assistant, language model.Language) {
	fmt.Printf("deskmate %s - type /help for commands\n\n", Version)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		printPrompt()
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		if ctx.Err() != nil {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := runCommand(assistant, line, &language); quit {
				return
			}
			continue
		}

		result, err := assistant.HandleMessage(ctx, line, language)
		if err != nil {
			fmt.Println(failStyle.Render("Error: " + err.Error()))
			continue
		}

		fmt.Println()
		fmt.Println(string(markdown.Render(result.Reply, replWidth, 2)))
		printOutcomes(result.Outcomes)
	}
}

// runCommand handles slash commands. Returns true when the REPL should exit.
func runCommand(assistant *session.Assistant, line string, language *model.Language) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/quit", "/exit":
		return true

	case "/help":
		fmt.Println(dimStyle.Render(`Commands:
  /history           show recent conversation
  /search <text>     search past conversation
  /tasks             list pending tasks
  /done <id>         mark a task completed
  /reminders         list pending reminders
  /activity          show recent actions
  /lang en|ur        switch reply language
  /quit              exit`))

	case "/history":
		turns, err := assistant.History(20)
		if err != nil {
			fmt.Println(failStyle.Render("Error: " + err.Error()))
			return false
		}
		printTurns(turns)

	case "/search":
		if arg == "" {
			fmt.Println(dimStyle.Render("usage: /search <text>"))
			return false
		}
		turns, err := assistant.SearchHistory(arg)
		if err != nil {
			fmt.Println(failStyle.Render("Error: " + err.Error()))
			return false
		}
		if len(turns) == 0 {
			fmt.Println(dimStyle.Render("No matches."))
			return false
		}
		printTurns(turns)

	case "/tasks":
		tasks, err := assistant.Tasks(model.TaskPending)
		if err != nil {
			fmt.Println(failStyle.Render("Error: " + err.Error()))
			return false
		}
		if len(tasks) == 0 {
			fmt.Println(dimStyle.Render("No pending tasks."))
			return false
		}
		for _, task := range tasks {
			line := fmt.Sprintf("  [%d] %s", task.ID, task.Text)
			if task.DueDate != nil {
				line += dimStyle.Render(" (due " + task.DueDate.Format("Jan 2 15:04") + ")")
			}
			fmt.Println(line)
		}

	case "/done":
		var id int64
		if _, err := fmt.Sscanf(arg, "%d", &id); err != nil {
			fmt.Println(dimStyle.Render("usage: /done <id>"))
			return false
		}
		if err := assistant.CompleteTask(id); err != nil {
			fmt.Println(failStyle.Render("Error: " + err.Error()))
			return false
		}
		fmt.Println(okStyle.Render("Task completed."))

	case "/reminders":
		reminders, err := assistant.Reminders(false)
		if err != nil {
			fmt.Println(failStyle.Render("Error: " + err.Error()))
			return false
		}
		if len(reminders) == 0 {
			fmt.Println(dimStyle.Render("No pending reminders."))
			return false
		}
		for _, r := range reminders {
			line := fmt.Sprintf("  [%d] %s", r.ID, r.Text)
			if r.Time != nil {
				line += dimStyle.Render(" (at " + r.Time.Format("Jan 2 15:04") + ")")
			}
			fmt.Println(line)
		}

	case "/activity":
		entries, err := assistant.Activity(20)
		if err != nil {
			fmt.Println(failStyle.Render("Error: " + err.Error()))
			return false
		}
		for _, entry := range entries {
			fmt.Printf("  %s  %s\n",
				dimStyle.Render(entry.Timestamp.Format("Jan 2 15:04")),
				entry.ActionType)
		}

	case "/lang":
		switch arg {
		case "en":
			*language = model.LangEnglish
			fmt.Println(okStyle.Render("Replying in English."))
		case "ur":
			*language = model.LangUrdu
			fmt.Println(okStyle.Render("Replying in Urdu."))
		default:
			fmt.Println(dimStyle.Render("usage: /lang en|ur"))
		}

	default:
		fmt.Println(dimStyle.Render("Unknown command. Try /help."))
	}
	return false
}

func printTurns(turns []model.ChatTurn) {
	for _, turn := range turns {
		role := promptStyle.Render(string(turn.Role))
		fmt.Printf("  %s %s  %s\n",
			dimStyle.Render(turn.Timestamp.Format("Jan 2 15:04")),
			role, turn.Content)
	}
}

func printOutcomes(outcomes []model.Outcome) {
	for _, outcome := range outcomes {
		if outcome.Success {
			fmt.Println(okStyle.Render("  ✓ " + outcome.ActionType + ": " + outcome.Result))
		} else {
			fmt.Println(failStyle.Render("  ✗ " + outcome.ActionType + ": " + outcome.Error))
		}
	}
	if len(outcomes) > 0 {
		fmt.Println()
	}
}
