package dispatch

import (
	"context"
	"errors"
	"slices"
	"testing"

	"slack_gateway/internal/model"
)

func noopResponder(body string) Responder {
	return func(ctx context.Context, in *model.Interaction) (string, error) {
		return body, nil
	}
}

func TestRegisterRejectsDuplicateKey(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("block_actions:approve", noopResponder("a")); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	err := r.Register("block_actions:approve", noopResponder("b"))
	if !errors.Is(err, ErrDuplicateHandler) {
		t.Errorf("expected ErrDuplicateHandler, got %v", err)
	}
}

func TestResolveSingleMatch(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("block_actions:approve", noopResponder("approved")); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	responder, key, err := r.Resolve([]string{"block_actions", "block_actions:approve", "block_actions:review"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if responder == nil {
		t.Fatal("expected a responder")
	}
	if key != "block_actions:approve" {
		t.Errorf("expected matched key block_actions:approve, got %s", key)
	}

	body, err := responder(context.Background(), &model.Interaction{})
	if err != nil || body != "approved" {
		t.Errorf("expected responder body \"approved\", got %q (err %v)", body, err)
	}
}

func TestResolveZeroMatchesIsNotAnError(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("view_submission:settings", noopResponder("x")); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	responder, key, err := r.Resolve([]string{"block_actions", "block_actions:approve"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if responder != nil || key != "" {
		t.Errorf("expected no match, got key %q", key)
	}
}

func TestKeysReturnsSortedRegistrations(t *testing.T) {
	r := NewRegistry()
	for _, key := range []string{"view_submission:settings", "block_actions:approve", "message_action:triage"} {
		if err := r.Register(key, noopResponder("x")); err != nil {
			t.Fatalf("registration failed: %v", err)
		}
	}

	got := r.Keys()
	want := []string{"block_actions:approve", "message_action:triage", "view_submission:settings"}
	if !slices.Equal(got, want) {
		t.Errorf("Keys = %v, want %v", got, want)
	}
}

func TestResolveAmbiguousMatchFails(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("block_actions", noopResponder("a")); err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	if err := r.Register("block_actions:approve", noopResponder("b")); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	_, _, err := r.Resolve([]string{"block_actions", "block_actions:approve"})
	if !errors.Is(err, ErrAmbiguousRoute) {
		t.Errorf("expected ErrAmbiguousRoute, got %v", err)
	}
}
