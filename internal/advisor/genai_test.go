package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestPrompt(t *testing.T) {
	p := Prompt("I need \"privacy\" on trains\nand planes")
	for _, want := range []string{
		"advice on laptop screen guards: \"I need \"privacy\" on trains\nand planes\".",
		"Safio.in",
		"Privacy (for remote work/security)",
		"Blue Light (for long hours/eye health)",
		"Self-Healing (for touchscreens/scratch protection)",
		"3-month warranty",
	} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q:\n%s", want, p)
		}
	}
}

func TestNewGenAIResponder_RequiresKey(t *testing.T) {
	if _, err := NewGenAIResponder(context.Background(), "", ""); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestNewGenAIResponder_DefaultModel(t *testing.T) {
	r, err := NewGenAIResponder(context.Background(), "test-key", "")
	if err != nil {
		t.Fatalf("new responder: %v", err)
	}
	if r.model != DefaultModel {
		t.Fatalf("expected %s, got %s", DefaultModel, r.model)
	}
}

func TestOffline(t *testing.T) {
	if _, err := (Offline{}).Respond(context.Background(), "hi"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
