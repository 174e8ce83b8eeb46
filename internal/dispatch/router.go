package dispatch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"slack_gateway/internal/model"
)

// Event subtypes this deployment routes. Slack's catalog is larger;
// anything else is acknowledged and logged at debug level.
const (
	EventAppMention      = "app_mention"
	EventAppHomeOpened   = "app_home_opened"
	EventMessageAppHome  = "message.app_home"
	EventMessageChannels = "message.channels"
	EventMessageGroups   = "message.groups"
	EventChannelCreated  = "channel_created"
	EventTeamJoin        = "team_join"
)

// CustomEvent is one pluggable reaction to an event subtype. Several
// CustomEvents may declare the same subtype; all of them are invoked, and
// one failing does not stop the others.
type CustomEvent interface {
	// Name identifies the event in logs.
	Name() string
	// EventType is the subtype this event reacts to.
	EventType() string
	// Handle processes one matching envelope.
	Handle(ctx context.Context, env *model.Envelope) error
}

type eventHandler func(ctx context.Context, env *model.Envelope) error

// EventRouter statically maps event subtypes to their designated handlers.
// The table and the custom-event lists are populated at startup and
// read-only while serving.
type EventRouter struct {
	log    *zap.Logger
	table  map[string]eventHandler
	custom map[string][]CustomEvent
}

func NewEventRouter(log *zap.Logger) *EventRouter {
	r := &EventRouter{
		log:    log,
		custom: make(map[string][]CustomEvent),
	}
	r.table = map[string]eventHandler{
		EventAppMention:      r.handleAppMention,
		EventAppHomeOpened:   r.handleAppHomeOpened,
		EventMessageAppHome:  r.handleMessage,
		EventMessageChannels: r.handleMessage,
		EventMessageGroups:   r.handleMessage,
		EventChannelCreated:  r.handleChannelCreated,
		EventTeamJoin:        r.handleTeamJoin,
	}
	return r
}

// Known reports whether subtype has a designated handler.
func (r *EventRouter) Known(subtype string) bool {
	_, ok := r.table[subtype]
	return ok
}

// AddCustomEvent registers a custom event under its declared subtype.
// Startup only; the subtype must be in the routing table.
func (r *EventRouter) AddCustomEvent(ev CustomEvent) error {
	if !r.Known(ev.EventType()) {
		return fmt.Errorf("custom event %q declares unknown event type %q", ev.Name(), ev.EventType())
	}
	r.custom[ev.EventType()] = append(r.custom[ev.EventType()], ev)
	return nil
}

// Dispatch routes an envelope to the handler for its subtype. Unknown
// subtypes are not an error: the platform's catalog is allowed to exceed
// what this deployment handles.
func (r *EventRouter) Dispatch(ctx context.Context, env *model.Envelope) error {
	subtype := env.EventType()
	handler, ok := r.table[subtype]
	if !ok {
		r.log.Debug("unhandled event subtype",
			zap.String("event_type", subtype),
			zap.String("event_id", env.EventID))
		return nil
	}
	return handler(ctx, env)
}

// invokeCustomEvents fans an envelope out to every custom event registered
// for subtype. Invocations are isolated: a failure is logged and the
// remaining events still run.
func (r *EventRouter) invokeCustomEvents(ctx context.Context, subtype string, env *model.Envelope) {
	for _, ev := range r.custom[subtype] {
		r.log.Debug("running custom event", zap.String("name", ev.Name()))
		if err := ev.Handle(ctx, env); err != nil {
			r.log.Error("custom event failed",
				zap.String("name", ev.Name()),
				zap.String("event_type", subtype),
				zap.String("event_id", env.EventID),
				zap.Error(err))
		}
	}
}

// handleAppMention runs when the bot is mentioned.
func (r *EventRouter) handleAppMention(ctx context.Context, env *model.Envelope) error {
	r.invokeCustomEvents(ctx, EventAppMention, env)
	return nil
}

// handleAppHomeOpened runs when a user opens the App Home tab.
func (r *EventRouter) handleAppHomeOpened(ctx context.Context, env *model.Envelope) error {
	r.invokeCustomEvents(ctx, EventAppHomeOpened, env)
	return nil
}

// handleMessage covers the message.* family (app home, public and private
// channels).
func (r *EventRouter) handleMessage(ctx context.Context, env *model.Envelope) error {
	r.invokeCustomEvents(ctx, env.EventType(), env)
	r.log.Debug("message event",
		zap.String("event_type", env.EventType()),
		zap.String("channel", env.Event.Channel.ID),
		zap.String("user", env.Event.User.ID))
	return nil
}

func (r *EventRouter) handleChannelCreated(ctx context.Context, env *model.Envelope) error {
	r.invokeCustomEvents(ctx, EventChannelCreated, env)
	r.log.Debug("channel created",
		zap.String("channel", env.Event.Channel.ID),
		zap.String("name", env.Event.Channel.Name),
		zap.String("creator", env.Event.Channel.Creator))
	return nil
}

func (r *EventRouter) handleTeamJoin(ctx context.Context, env *model.Envelope) error {
	r.invokeCustomEvents(ctx, EventTeamJoin, env)
	r.log.Debug("team join", zap.String("user", env.Event.User.ID))
	return nil
}
