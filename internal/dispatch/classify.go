// Package dispatch contains the classification and routing core of the
// gateway: payload classification, trigger key derivation, the
// single-responder registry, the passive-listener emitter, and the event
// router.
package dispatch

import (
	"errors"
	"fmt"
)

// Kind is the classified shape of an inbound webhook payload.
type Kind int

const (
	KindUnknown Kind = iota
	KindChallenge
	KindEnvelope
	KindInteraction
	KindCommand
)

func (k Kind) String() string {
	switch k {
	case KindChallenge:
		return "challenge"
	case KindEnvelope:
		return "envelope"
	case KindInteraction:
		return "interaction"
	case KindCommand:
		return "command"
	default:
		return "unknown"
	}
}

// ErrUnclassifiablePayload means the payload matched none of the known
// webhook shapes. Never defaulted around: the caller must reject.
var ErrUnclassifiablePayload = errors.New("payload does not match any known webhook shape")

// interactionTypes are the top-level type values of interactive-component
// callbacks.
var interactionTypes = map[string]bool{
	"block_actions":       true,
	"interactive_message": true,
	"message_action":      true,
	"shortcut":            true,
	"view_submission":     true,
	"view_closed":         true,
	"workflow_step_edit":  true,
}

// Classify determines the variant of a decoded payload. Decision order:
// url_verification challenge, then event envelope, then interactive
// action, then slash command. Anything else is ErrUnclassifiablePayload.
func Classify(payload map[string]any) (Kind, error) {
	typ, _ := payload["type"].(string)

	if typ == "url_verification" {
		if _, ok := payload["challenge"]; ok {
			return KindChallenge, nil
		}
	}

	if _, ok := payload["event"]; ok {
		return KindEnvelope, nil
	}

	_, hasActions := payload["actions"]
	_, hasCallbackID := payload["callback_id"]
	_, hasView := payload["view"]
	if hasActions || hasCallbackID || hasView || interactionTypes[typ] {
		return KindInteraction, nil
	}

	if _, ok := payload["command"]; ok {
		return KindCommand, nil
	}

	return KindUnknown, fmt.Errorf("%w: type=%q", ErrUnclassifiablePayload, typ)
}
