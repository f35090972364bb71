// Package session orchestrates one user request end to end: persist the
// utterance, resolve intent, dispatch actions, persist the reply.
package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"deskmate/dispatch"
	"deskmate/model"
	"deskmate/resolver"
)

// ErrEmptyUtterance is the only hard failure HandleMessage produces;
// everything downstream degrades instead of erroring.
var ErrEmptyUtterance = errors.New("empty utterance")

// contextWindow is how many recent turns are loaded as conversation
// context for the resolver.
const contextWindow = 10

// Store is the persistence surface the orchestrator needs. *storage.Store
// satisfies it.
type Store interface {
	AddChatTurn(role model.Role, content string, language model.Language) error
	RecentChats(limit int) ([]model.ChatTurn, error)
	SearchChats(query string) ([]model.ChatTurn, error)

	AddTask(text string, due *time.Time) (int64, error)
	Tasks(status model.TaskStatus) ([]model.Task, error)
	UpdateTaskStatus(id int64, status model.TaskStatus) error
	DeleteTask(id int64) error

	AddReminder(text string, at *time.Time) (int64, error)
	Reminders(includeTriggered bool) ([]model.Reminder, error)

	ActivityLog(limit int) ([]model.ActivityEntry, error)
}

// Transcriber turns captured audio into an utterance. Consumed only by
// front ends that do voice input; the orchestrator itself never records.
type Transcriber interface {
	Transcribe(ctx context.Context) (string, error)
}

// Speaker voices a reply. Same deal: optional, front-end territory.
type Speaker interface {
	Speak(ctx context.Context, text string, language model.Language) error
}

// Result is what one handled message produces. RequestID correlates the
// result with the log lines the request emitted.
type Result struct {
	RequestID string
	Reply     string
	Outcomes  []model.Outcome
	Timestamp time.Time
}

// Assistant ties the store, resolver, and dispatcher together.
type Assistant struct {
	store      Store
	resolver   *resolver.Resolver
	dispatcher *dispatch.Dispatcher
	log        *zap.Logger
}

// New returns an assistant over the given collaborators.
func New(store Store, res *resolver.Resolver, disp *dispatch.Dispatcher, logger *zap.Logger) *Assistant {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assistant{store: store, resolver: res, dispatcher: disp, log: logger}
}

// HandleMessage runs the full pipeline for one utterance. The utterance
// and the reply are each written to the chat log exactly once; persistence
// trouble is logged and the request continues, because losing history is
// better than losing the conversation.
func (a *Assistant) HandleMessage(ctx context.Context, text string, language model.Language) (Result, error) {
	utterance := strings.TrimSpace(text)
	if utterance == "" {
		return Result{}, ErrEmptyUtterance
	}
	if language == "" {
		language = model.LangEnglish
	}

	requestID := uuid.NewString()
	log := a.log.With(zap.String("request_id", requestID))

	if err := a.store.AddChatTurn(model.RoleUser, utterance, language); err != nil {
		log.Warn("failed to persist user turn", zap.Error(err))
	}

	recent, err := a.store.RecentChats(contextWindow)
	if err != nil {
		log.Warn("failed to load recent chats", zap.Error(err))
		recent = nil
	}

	resolution := a.resolver.Resolve(ctx, utterance, language, recent)
	outcomes := a.dispatcher.DispatchAll(ctx, resolution.Actions)

	if err := a.store.AddChatTurn(model.RoleAssistant, resolution.Reply, language); err != nil {
		log.Warn("failed to persist assistant turn", zap.Error(err))
	}

	return Result{
		RequestID: requestID,
		Reply:     resolution.Reply,
		Outcomes:  outcomes,
		Timestamp: time.Now(),
	}, nil
}

// History returns up to limit recent turns, oldest first.
func (a *Assistant) History(limit int) ([]model.ChatTurn, error) {
	return a.store.RecentChats(limit)
}

// SearchHistory finds past turns containing the query text.
func (a *Assistant) SearchHistory(query string) ([]model.ChatTurn, error) {
	return a.store.SearchChats(query)
}

// AddTask records a task, optionally with a due time.
func (a *Assistant) AddTask(text string, due *time.Time) (int64, error) {
	return a.store.AddTask(text, due)
}

// Tasks lists tasks; pass "" for all statuses.
func (a *Assistant) Tasks(status model.TaskStatus) ([]model.Task, error) {
	return a.store.Tasks(status)
}

// CompleteTask marks a task done.
func (a *Assistant) CompleteTask(id int64) error {
	return a.store.UpdateTaskStatus(id, model.TaskCompleted)
}

// DeleteTask removes a task.
func (a *Assistant) DeleteTask(id int64) error {
	return a.store.DeleteTask(id)
}

// AddReminder records a reminder, optionally scheduled.
func (a *Assistant) AddReminder(text string, at *time.Time) (int64, error) {
	return a.store.AddReminder(text, at)
}

// Reminders lists reminders, optionally including already-triggered ones.
func (a *Assistant) Reminders(includeTriggered bool) ([]model.Reminder, error) {
	return a.store.Reminders(includeTriggered)
}

// Activity returns the most recent activity-log entries.
func (a *Assistant) Activity(limit int) ([]model.ActivityEntry, error) {
	return a.store.ActivityLog(limit)
}
