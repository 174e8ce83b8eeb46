package dispatch

import (
	"errors"
	"testing"
)

func TestClassifyChallenge(t *testing.T) {
	payload := map[string]any{
		"token":     "t",
		"type":      "url_verification",
		"challenge": "abc123",
	}
	kind, err := Classify(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != KindChallenge {
		t.Errorf("expected KindChallenge, got %v", kind)
	}
}

func TestClassifyEnvelope(t *testing.T) {
	payload := map[string]any{
		"token":    "t",
		"type":     "event_callback",
		"team_id":  "T001",
		"event_id": "Ev001",
		"event":    map[string]any{"type": "app_mention"},
	}
	kind, err := Classify(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != KindEnvelope {
		t.Errorf("expected KindEnvelope, got %v", kind)
	}
}

func TestClassifyInteraction(t *testing.T) {
	cases := []struct {
		name    string
		payload map[string]any
	}{
		{
			"block actions with sub-actions",
			map[string]any{
				"type":    "block_actions",
				"actions": []any{map[string]any{"action_id": "approve"}},
			},
		},
		{
			"callback id only",
			map[string]any{"callback_id": "review"},
		},
		{
			"view submission",
			map[string]any{
				"type": "view_submission",
				"view": map[string]any{"callback_id": "modal"},
			},
		},
		{
			"interactive type alone",
			map[string]any{"type": "message_action"},
		},
	}
	for _, tc := range cases {
		kind, err := Classify(tc.payload)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
			continue
		}
		if kind != KindInteraction {
			t.Errorf("%s: expected KindInteraction, got %v", tc.name, kind)
		}
	}
}

func TestClassifyCommand(t *testing.T) {
	payload := map[string]any{
		"token":        "t",
		"command":      "/test",
		"response_url": "https://hooks.slack.com/commands/T001/1/x",
		"user_id":      "U001",
	}
	kind, err := Classify(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != KindCommand {
		t.Errorf("expected KindCommand, got %v", kind)
	}
}

func TestClassifyUnknownShapeFails(t *testing.T) {
	cases := []struct {
		name    string
		payload map[string]any
	}{
		{"empty payload", map[string]any{}},
		{"unknown type", map[string]any{"type": "something_else"}},
		{"event_callback without event field", map[string]any{"type": "event_callback"}},
		{"url_verification without challenge", map[string]any{"type": "url_verification"}},
	}
	for _, tc := range cases {
		kind, err := Classify(tc.payload)
		if !errors.Is(err, ErrUnclassifiablePayload) {
			t.Errorf("%s: expected ErrUnclassifiablePayload, got %v", tc.name, err)
		}
		if kind != KindUnknown {
			t.Errorf("%s: expected KindUnknown, got %v", tc.name, kind)
		}
	}
}

func TestClassifyPrefersChallengeOverEnvelope(t *testing.T) {
	// a handshake with a stray event field still echoes the challenge
	payload := map[string]any{
		"type":      "url_verification",
		"challenge": "abc123",
		"event":     map[string]any{"type": "app_mention"},
	}
	kind, err := Classify(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != KindChallenge {
		t.Errorf("expected KindChallenge, got %v", kind)
	}
}
