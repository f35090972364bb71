package capability

import (
	"context"
	"errors"
	"testing"
)

func nopHandler(context.Context, map[string]any) (string, error) {
	return "", nil
}

func TestRegisterAndResolve(t *testing.T) {
	reg := NewRegistry()

	err := reg.Register(Entry{
		Type:        "open_app",
		Description: "open an application",
		Required:    []string{"app_name"},
		Handler:     nopHandler,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	entry, err := reg.Resolve("open_app")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if entry.Description != "open an application" {
		t.Errorf("description = %q", entry.Description)
	}
	if len(entry.Required) != 1 || entry.Required[0] != "app_name" {
		t.Errorf("required = %v", entry.Required)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(Entry{Type: "open_app", Handler: nopHandler}); err != nil {
		t.Fatal(err)
	}

	err := reg.Register(Entry{Type: "open_app", Handler: nopHandler})
	if !errors.Is(err, ErrDuplicateCapability) {
		t.Errorf("err = %v, want ErrDuplicateCapability", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register(Entry{Type: "", Handler: nopHandler}); err == nil {
		t.Error("empty type must be rejected")
	}
	if err := reg.Register(Entry{Type: "no_handler"}); err == nil {
		t.Error("nil handler must be rejected")
	}
}

func TestResolveUnknown(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Resolve("teleport")
	if !errors.Is(err, ErrUnknownCapability) {
		t.Errorf("err = %v, want ErrUnknownCapability", err)
	}
}

func TestTypesSorted(t *testing.T) {
	reg := NewRegistry()
	for _, typ := range []string{"zeta", "alpha", "mid"} {
		if err := reg.Register(Entry{Type: typ, Handler: nopHandler}); err != nil {
			t.Fatal(err)
		}
	}

	types := reg.Types()
	want := []string{"alpha", "mid", "zeta"}
	for i, typ := range want {
		if types[i] != typ {
			t.Fatalf("types = %v, want %v", types, want)
		}
	}

	entries := reg.Entries()
	for i, typ := range want {
		if entries[i].Type != typ {
			t.Fatalf("entries order = %v", entries)
		}
	}
}
