package model

import (
	"encoding/json"
	"net/url"
	"testing"
)

func TestEnvelopeEventTypeDerivation(t *testing.T) {
	cases := []struct {
		name string
		env  Envelope
		want string
	}{
		{"plain subtype", Envelope{Event: Event{Type: "app_mention"}}, "app_mention"},
		{"message with channel type", Envelope{Event: Event{Type: "message", ChannelType: "groups"}}, "message.groups"},
		{"message without channel type", Envelope{Event: Event{Type: "message"}}, "message"},
	}
	for _, tc := range cases {
		if got := tc.env.EventType(); got != tc.want {
			t.Errorf("%s: EventType = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestChannelRefDecodesBothShapes(t *testing.T) {
	var env Envelope
	raw := `{"event":{"type":"message","channel":"C123"}}`
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		t.Fatalf("failed to decode string channel: %v", err)
	}
	if env.Event.Channel.ID != "C123" {
		t.Errorf("expected channel ID C123, got %q", env.Event.Channel.ID)
	}

	raw = `{"event":{"type":"channel_created","channel":{"id":"C456","name":"random","creator":"U001"}}}`
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		t.Fatalf("failed to decode channel object: %v", err)
	}
	if env.Event.Channel.ID != "C456" || env.Event.Channel.Name != "random" {
		t.Errorf("unexpected channel: %+v", env.Event.Channel)
	}
}

func TestUserRefDecodesBothShapes(t *testing.T) {
	var env Envelope
	raw := `{"event":{"type":"app_mention","user":"U123"}}`
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		t.Fatalf("failed to decode string user: %v", err)
	}
	if env.Event.User.ID != "U123" {
		t.Errorf("expected user ID U123, got %q", env.Event.User.ID)
	}

	raw = `{"event":{"type":"team_join","user":{"id":"U456","name":"newbie","is_bot":false}}}`
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		t.Fatalf("failed to decode user object: %v", err)
	}
	if env.Event.User.ID != "U456" || env.Event.User.Name != "newbie" {
		t.Errorf("unexpected user: %+v", env.Event.User)
	}
}

func TestInteractionFromMapPreservesUnknownKeys(t *testing.T) {
	payload := map[string]any{
		"type":        "block_actions",
		"callback_id": "review",
		"actions": []any{
			map[string]any{"action_id": "approve", "type": "button"},
		},
		"view":              map[string]any{"callback_id": "modal"},
		"some_future_field": "kept",
	}

	in := InteractionFromMap(payload)
	if in.Type != "block_actions" || in.CallbackID != "review" {
		t.Errorf("unexpected interaction: %+v", in)
	}
	if len(in.Actions) != 1 || in.Actions[0].ActionID != "approve" || in.Actions[0].Type != "button" {
		t.Errorf("unexpected sub-actions: %+v", in.Actions)
	}
	if in.ViewCallbackID() != "modal" {
		t.Errorf("expected view callback id modal, got %q", in.ViewCallbackID())
	}
	if in.Raw["some_future_field"] != "kept" {
		t.Error("expected unknown key to be preserved in Raw")
	}
}

func TestSlashCommandFromForm(t *testing.T) {
	values := url.Values{}
	values.Set("command", "/test")
	values.Set("user_id", "U001")
	values.Set("channel_id", "C001")
	values.Set("text", "hello there")
	values.Set("response_url", "https://hooks.slack.com/commands/T001/1/x")

	cmd := SlashCommandFromForm(values)
	if cmd.Command != "/test" || cmd.UserID != "U001" || cmd.Text != "hello there" {
		t.Errorf("unexpected command: %+v", cmd)
	}
	if cmd.Name() != "test" {
		t.Errorf("expected routing name \"test\", got %q", cmd.Name())
	}
}
