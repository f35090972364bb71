package resolver

import (
	"fmt"
	"strings"

	"deskmate/capability"
	"deskmate/model"
)

// buildPrompt assembles the bounded oracle prompt: system instructions with
// the capability catalog, the last contextWindow turns oldest-first, and
// the current utterance with an explicit language directive.
func buildPrompt(registry *capability.Registry, utterance string, language model.Language, recent []model.ChatTurn) []model.ChatMessage {
	messages := []model.ChatMessage{
		{Role: model.RoleSystem, Content: systemPrompt(registry)},
	}

	turns := recent
	if len(turns) > contextWindow {
		turns = turns[len(turns)-contextWindow:]
	}
	for _, turn := range turns {
		messages = append(messages, model.ChatMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}

	directive := " [RESPOND IN ENGLISH]"
	if language == model.LangUrdu {
		directive = " [RESPOND IN URDU]"
	}

	messages = append(messages, model.ChatMessage{
		Role:    model.RoleUser,
		Content: utterance + directive,
	})

	return messages
}

// systemPrompt renders the assistant instructions including the live
// capability catalog, so the oracle only ever suggests registered action
// types. Rebuilt per request; the registry is frozen so the catalog text
// is stable within a session.
func systemPrompt(registry *capability.Registry) string {
	var sb strings.Builder

	sb.WriteString(`You are deskmate, a desktop assistant. You answer questions, remember past conversation, and perform actions on the user's machine.

When the user asks you to perform an action, respond with a single JSON object:

{
  "response": "Your natural, friendly response",
  "actions": [
    {"type": "action_type", "parameters": {"name": "value"}}
  ]
}

For plain conversation, respond with normal text and no JSON.

Available action types:
`)

	for _, entry := range registry.Entries() {
		sb.WriteString("- ")
		sb.WriteString(entry.Type)
		if entry.Description != "" {
			sb.WriteString(": ")
			sb.WriteString(entry.Description)
		}
		if len(entry.Required) > 0 {
			fmt.Fprintf(&sb, " (required: %s)", strings.Join(entry.Required, ", "))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(`
Rules:
- Only use action types from the list above.
- Include every required parameter; never invent placeholder values.
- For "create a folder named X" use organize_files with action="create_folder", folder_name="X", location="desktop".
- For "remind me to X" use set_reminder with text="X".
- Always respond in English unless explicitly asked for Urdu.
- For destructive operations (delete, format), ask for confirmation first instead of emitting an action.`)

	return sb.String()
}
