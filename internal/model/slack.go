package model

import (
	"encoding/json"
	"net/url"
	"strings"
)

// Challenge is the url_verification handshake Slack sends when the
// endpoint is first registered.
type Challenge struct {
	Token     string `json:"token"`
	Challenge string `json:"challenge"`
	Type      string `json:"type"`
}

// Envelope wraps an Events API callback.
type Envelope struct {
	Token       string   `json:"token"`
	TeamID      string   `json:"team_id"`
	APIAppID    string   `json:"api_app_id"`
	Event       Event    `json:"event"`
	Type        string   `json:"type"`
	EventID     string   `json:"event_id"`
	EventTime   int64    `json:"event_time"`
	AuthedTeams []string `json:"authed_teams,omitempty"`
	AuthedUsers []string `json:"authed_users,omitempty"`
}

// EventType returns the routing discriminant for the inner event. Message
// events carry their channel flavor in channel_type, so "message" becomes
// "message.channels", "message.groups", etc.
func (e *Envelope) EventType() string {
	if e.Event.Type == "message" && e.Event.ChannelType != "" {
		return "message." + e.Event.ChannelType
	}
	return e.Event.Type
}

// Event is the inner event body of an envelope.
type Event struct {
	Type        string         `json:"type"`
	User        UserRef        `json:"user"`
	Text        string         `json:"text"`
	TS          string         `json:"ts"`
	EventTS     string         `json:"event_ts"`
	ThreadTS    string         `json:"thread_ts"`
	ChannelType string         `json:"channel_type"`
	Channel     ChannelRef     `json:"channel"`
	Tab         string         `json:"tab"`
	BotID       string         `json:"bot_id"`
	View        map[string]any `json:"view,omitempty"`
}

// ChannelRef accepts both wire shapes for the channel field: a plain
// channel ID string (message events) or a channel object (channel_created).
type ChannelRef struct {
	ID      string
	Name    string
	Creator string
}

func (c *ChannelRef) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &c.ID)
	}
	var aux struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Creator string `json:"creator"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	c.ID = aux.ID
	c.Name = aux.Name
	c.Creator = aux.Creator
	return nil
}

// UserRef accepts both a user ID string (most events) and a user object
// (team_join).
type UserRef struct {
	ID    string
	Name  string
	IsBot bool
}

func (u *UserRef) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &u.ID)
	}
	var aux struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		IsBot bool   `json:"is_bot"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	u.ID = aux.ID
	u.Name = aux.Name
	u.IsBot = aux.IsBot
	return nil
}

// SubAction is one entry of an interaction's actions list. Legacy
// attachments carry name/type, Block Kit carries action_id.
type SubAction struct {
	ActionID string
	Name     string
	Type     string
}

// Interaction is an interactive-component callback (block_actions,
// view_submission, message_action, legacy interactive_message, ...).
// Slack adds fields to this payload over time, so the full decoded map is
// kept in Raw and unknown keys are never dropped.
type Interaction struct {
	Type        string
	Token       string
	CallbackID  string
	TriggerID   string
	ResponseURL string
	Hash        string
	Actions     []SubAction
	View        map[string]any
	Container   map[string]any
	Message     map[string]any
	Channel     map[string]any
	Team        map[string]any
	User        map[string]any

	// Raw is the complete decoded payload, unknown keys included.
	Raw map[string]any
}

// InteractionFromMap builds an Interaction from a decoded payload map.
func InteractionFromMap(m map[string]any) *Interaction {
	in := &Interaction{
		Type:        stringField(m, "type"),
		Token:       stringField(m, "token"),
		CallbackID:  stringField(m, "callback_id"),
		TriggerID:   stringField(m, "trigger_id"),
		ResponseURL: stringField(m, "response_url"),
		Hash:        stringField(m, "hash"),
		View:        mapField(m, "view"),
		Container:   mapField(m, "container"),
		Message:     mapField(m, "message"),
		Channel:     mapField(m, "channel"),
		Team:        mapField(m, "team"),
		User:        mapField(m, "user"),
		Raw:         m,
	}
	if actions, ok := m["actions"].([]any); ok {
		for _, a := range actions {
			am, ok := a.(map[string]any)
			if !ok {
				continue
			}
			in.Actions = append(in.Actions, SubAction{
				ActionID: stringField(am, "action_id"),
				Name:     stringField(am, "name"),
				Type:     stringField(am, "type"),
			})
		}
	}
	return in
}

// ViewCallbackID returns the callback_id of the attached view, if any.
func (i *Interaction) ViewCallbackID() string {
	if i.View == nil {
		return ""
	}
	return stringField(i.View, "callback_id")
}

// SlashCommand is a slash command invocation. The form-encoded origin
// guarantees every field is populated.
type SlashCommand struct {
	Token       string `json:"token"`
	Command     string `json:"command"`
	ResponseURL string `json:"response_url"`
	TriggerID   string `json:"trigger_id"`
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	TeamID      string `json:"team_id"`
	ChannelID   string `json:"channel_id"`
	Text        string `json:"text"`
}

// SlashCommandFromForm builds a SlashCommand from decoded form values.
func SlashCommandFromForm(values url.Values) *SlashCommand {
	return &SlashCommand{
		Token:       values.Get("token"),
		Command:     values.Get("command"),
		ResponseURL: values.Get("response_url"),
		TriggerID:   values.Get("trigger_id"),
		UserID:      values.Get("user_id"),
		UserName:    values.Get("user_name"),
		TeamID:      values.Get("team_id"),
		ChannelID:   values.Get("channel_id"),
		Text:        values.Get("text"),
	}
}

// Name returns the command without its leading slash; "/test" routes to
// listeners subscribed to "test".
func (c *SlashCommand) Name() string {
	return strings.TrimPrefix(c.Command, "/")
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func mapField(m map[string]any, key string) map[string]any {
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return nil
}
