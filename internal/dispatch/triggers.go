package dispatch

import (
	"slices"

	"slack_gateway/internal/model"
)

// TriggerKeys computes the ordered candidate routing keys for an
// interaction. Derivation order, duplicates removed:
//
//  1. the interaction type alone
//  2. "<type>:<action_id>" per sub-action carrying an action_id
//  3. "<type>:<name>" per sub-action carrying a name
//  4. "<type>:<subtype>" per sub-action carrying a type
//  5. "<type>:<name>:<subtype>" per sub-action carrying both
//  6. "<type>:<callback_id>" when the payload has a callback_id
//  7. "<type>:<view_callback_id>" when the attached view has a callback_id
//
// Pure: the same interaction always yields the same ordered key set.
func TriggerKeys(in *model.Interaction) []string {
	var keys []string
	add := func(key string) {
		if !slices.Contains(keys, key) {
			keys = append(keys, key)
		}
	}

	add(in.Type)
	for _, a := range in.Actions {
		if a.ActionID != "" {
			add(in.Type + ":" + a.ActionID)
		}
	}
	for _, a := range in.Actions {
		if a.Name != "" {
			add(in.Type + ":" + a.Name)
		}
	}
	for _, a := range in.Actions {
		if a.Type != "" {
			add(in.Type + ":" + a.Type)
		}
	}
	for _, a := range in.Actions {
		if a.Name != "" && a.Type != "" {
			add(in.Type + ":" + a.Name + ":" + a.Type)
		}
	}
	if in.CallbackID != "" {
		add(in.Type + ":" + in.CallbackID)
	}
	if viewCallbackID := in.ViewCallbackID(); viewCallbackID != "" {
		add(in.Type + ":" + viewCallbackID)
	}

	return keys
}
