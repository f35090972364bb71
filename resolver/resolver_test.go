package resolver

import (
	"context"
	"errors"
	"testing"

	"deskmate/capability"
	"deskmate/model"
	"deskmate/oracle/testutil"
)

func testRegistry(t *testing.T, types ...string) *capability.Registry {
	t.Helper()
	reg := capability.NewRegistry()
	for _, typ := range types {
		err := reg.Register(capability.Entry{
			Type:        typ,
			Description: typ,
			Handler: func(context.Context, map[string]any) (string, error) {
				return "ok", nil
			},
		})
		if err != nil {
			t.Fatalf("register %s: %v", typ, err)
		}
	}
	return reg
}

func defaultRegistry(t *testing.T) *capability.Registry {
	t.Helper()
	return testRegistry(t, "browse_url", "search_google", "send_email",
		"organize_files", "set_reminder", "open_app")
}

func TestResolveStructuredEnvelope(t *testing.T) {
	mock := testutil.NewMockOracle(`{"response": "Opening Chrome for you.", "actions": [{"type": "open_app", "parameters": {"app_name": "chrome"}}]}`)
	r := New(mock, defaultRegistry(t), nil)

	res := r.Resolve(context.Background(), "open chrome please", model.LangEnglish, nil)

	if res.Reply != "Opening Chrome for you." {
		t.Errorf("reply = %q", res.Reply)
	}
	if len(res.Actions) != 1 {
		t.Fatalf("actions = %d, want 1", len(res.Actions))
	}
	if res.Actions[0].Type != "open_app" {
		t.Errorf("action type = %q", res.Actions[0].Type)
	}
	if got := res.Actions[0].Param("app_name"); got != "chrome" {
		t.Errorf("app_name = %q", got)
	}
}

func TestResolveDropsUnregisteredAction(t *testing.T) {
	mock := testutil.NewMockOracle(`{"response": "On it.", "actions": [{"type": "launch_missiles"}, {"type": "open_app", "parameters": {"app_name": "notepad"}}]}`)
	r := New(mock, defaultRegistry(t), nil)

	res := r.Resolve(context.Background(), "do the thing", model.LangEnglish, nil)

	if len(res.Actions) != 1 {
		t.Fatalf("actions = %d, want 1 (unregistered type dropped)", len(res.Actions))
	}
	if res.Actions[0].Type != "open_app" {
		t.Errorf("surviving action = %q", res.Actions[0].Type)
	}
}

func TestResolveNilActionParameters(t *testing.T) {
	mock := testutil.NewMockOracle(`{"response": "done", "actions": [{"type": "open_app"}]}`)
	r := New(mock, defaultRegistry(t), nil)

	res := r.Resolve(context.Background(), "open something", model.LangEnglish, nil)

	if len(res.Actions) != 1 {
		t.Fatalf("actions = %d, want 1", len(res.Actions))
	}
	if res.Actions[0].Parameters == nil {
		t.Error("parameters should be normalized to an empty map")
	}
}

func TestResolveFreeTextReply(t *testing.T) {
	mock := testutil.NewMockOracle("The capital of France is Paris.")
	r := New(mock, defaultRegistry(t), nil)

	res := r.Resolve(context.Background(), "what is the capital of France?", model.LangEnglish, nil)

	if res.Reply != "The capital of France is Paris." {
		t.Errorf("reply = %q", res.Reply)
	}
	if len(res.Actions) != 0 {
		t.Errorf("actions = %v, want none for a pure question", res.Actions)
	}
}

func TestResolveMalformedJSONFallsBackToKeywords(t *testing.T) {
	mock := testutil.NewMockOracle(`{"response": "broken`)
	r := New(mock, defaultRegistry(t), nil)

	res := r.Resolve(context.Background(), "open google", model.LangEnglish, nil)

	// Unparsable output is treated as free text; the fallback tables still
	// extract the browse action from the utterance.
	if res.Reply == "" {
		t.Error("reply should not be empty")
	}
	if len(res.Actions) != 1 || res.Actions[0].Type != "browse_url" {
		t.Errorf("actions = %v, want [browse_url]", res.Actions)
	}
}

func TestResolveOracleFailureDegrades(t *testing.T) {
	mock := testutil.NewFailingOracle(errors.New("connection refused"))
	r := New(mock, defaultRegistry(t), nil)

	res := r.Resolve(context.Background(), "open google", model.LangEnglish, nil)

	if res.Reply != apologeticReply {
		t.Errorf("reply = %q, want the fixed degraded reply", res.Reply)
	}
	if len(res.Actions) != 1 || res.Actions[0].Type != "browse_url" {
		t.Errorf("actions = %v, want [browse_url] from fallback", res.Actions)
	}
	if res.Actions[0].Param("url") != "https://www.google.com" {
		t.Errorf("url = %q", res.Actions[0].Param("url"))
	}
}

func TestResolveNilOracle(t *testing.T) {
	r := New(nil, defaultRegistry(t), nil)

	res := r.Resolve(context.Background(), "remind me to call Ali at 6pm", model.LangEnglish, nil)

	if res.Reply == "" {
		t.Error("degraded path must still produce a reply")
	}
	if len(res.Actions) != 1 || res.Actions[0].Type != "set_reminder" {
		t.Fatalf("actions = %v, want [set_reminder]", res.Actions)
	}
	if got := res.Actions[0].Param("text"); got != "remind me to call Ali at 6pm" {
		t.Errorf("reminder text = %q, want the full utterance", got)
	}
	if _, ok := res.Actions[0].Parameters["time"]; ok {
		t.Error("fallback reminder must not invent a time")
	}
}

func TestResolveStructuredOutputRequest(t *testing.T) {
	tests := []struct {
		utterance string
		wantJSON  bool
	}{
		{"open the browser", true},
		{"create a folder called projects", true},
		{"remind me about the meeting", true},
		{"how are you today?", false},
		{"tell me a joke", false},
	}

	for _, tt := range tests {
		mock := testutil.NewMockOracle("hello")
		r := New(mock, defaultRegistry(t), nil)
		r.Resolve(context.Background(), tt.utterance, model.LangEnglish, nil)

		if len(mock.Calls) != 1 {
			t.Fatalf("%q: calls = %d", tt.utterance, len(mock.Calls))
		}
		if mock.Calls[0].WantJSON != tt.wantJSON {
			t.Errorf("%q: wantJSON = %v, want %v", tt.utterance, mock.Calls[0].WantJSON, tt.wantJSON)
		}
	}
}

func TestResolvePromptCarriesContext(t *testing.T) {
	mock := testutil.NewMockOracle("hi again")
	r := New(mock, defaultRegistry(t), nil)

	recent := []model.ChatTurn{
		{Role: model.RoleUser, Content: "my name is Sana"},
		{Role: model.RoleAssistant, Content: "Nice to meet you, Sana."},
	}
	r.Resolve(context.Background(), "what is my name?", model.LangEnglish, recent)

	msgs := mock.Calls[0].Messages
	if len(msgs) != 4 { // system + 2 history + utterance
		t.Fatalf("messages = %d, want 4", len(msgs))
	}
	if msgs[0].Role != model.RoleSystem {
		t.Errorf("first message role = %q, want system", msgs[0].Role)
	}
	if msgs[1].Content != "my name is Sana" {
		t.Errorf("history not carried: %q", msgs[1].Content)
	}
}

func TestResolveUrduDirective(t *testing.T) {
	mock := testutil.NewMockOracle("ٹھیک ہے")
	r := New(mock, defaultRegistry(t), nil)

	r.Resolve(context.Background(), "mujhe ek lateefa sunao", model.LangUrdu, nil)

	msgs := mock.Calls[0].Messages
	last := msgs[len(msgs)-1].Content
	if want := "mujhe ek lateefa sunao [RESPOND IN URDU]"; last != want {
		t.Errorf("utterance message = %q, want %q", last, want)
	}
}

func TestExtractFallbackActions(t *testing.T) {
	r := New(nil, defaultRegistry(t), nil)

	tests := []struct {
		name      string
		utterance string
		wantTypes []string
	}{
		{"open google", "open google", []string{"browse_url"}},
		{"launch the browser", "launch the browser", []string{"browse_url"}},
		{"start chrome", "start chrome", []string{"browse_url"}},
		{"google search", "search google for cheap flights", []string{"search_google"}},
		{"open and search", "open google and search for flights", []string{"browse_url", "search_google"}},
		{"clean downloads", "please clean up my downloads folder", []string{"organize_files"}},
		{"reminder", "remind me to water the plants", []string{"set_reminder"}},
		{"email without recipient", "send an email to my boss", nil},
		{"email with address", "email ali@example.com about lunch", []string{"send_email"}},
		{"plain chat", "what a lovely morning", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actions := r.extractFallbackActions(tt.utterance)

			if len(actions) != len(tt.wantTypes) {
				t.Fatalf("actions = %v, want types %v", actions, tt.wantTypes)
			}
			for i, want := range tt.wantTypes {
				if actions[i].Type != want {
					t.Errorf("action[%d] = %q, want %q", i, actions[i].Type, want)
				}
			}
		})
	}
}

func TestExtractFallbackActionsUnregisteredDropped(t *testing.T) {
	// Only search_google registered: the browse action cannot be emitted
	// even though its trigger phrase matched.
	r := New(nil, testRegistry(t, "search_google"), nil)

	actions := r.extractFallbackActions("open google and search for weather in Lahore")

	if len(actions) != 1 || actions[0].Type != "search_google" {
		t.Fatalf("actions = %v, want [search_google]", actions)
	}
}

func TestExtractSearchQuery(t *testing.T) {
	tests := []struct {
		utterance string
		want      string
	}{
		{"search google for cheap flights", "cheap flights"},
		{"search for weather in Lahore", "weather Lahore"},
		{"find my keys", "my keys"},
		{"look up golang generics", "golang generics"},
		{"search", ""},
		{"search on google", ""},
	}

	for _, tt := range tests {
		if got := extractSearchQuery(tt.utterance); got != tt.want {
			t.Errorf("extractSearchQuery(%q) = %q, want %q", tt.utterance, got, tt.want)
		}
	}
}

func TestSystemPromptListsCapabilities(t *testing.T) {
	reg := defaultRegistry(t)
	prompt := systemPrompt(reg)

	for _, typ := range reg.Types() {
		if !containsAny(prompt, typ) {
			t.Errorf("system prompt missing capability %q", typ)
		}
	}
}
